package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventmgt/internal/domain"
)

const locationColumns = `id, pid, title, address, zip, city, country, description, link, latitude, longitude`

type locationRepository struct {
	DB *sql.DB
}

func NewLocationRepository(db *sql.DB) domain.LocationRepository {
	return &locationRepository{DB: db}
}

func scanLocation(s rowScanner) (*domain.Location, error) {
	l := &domain.Location{}
	err := s.Scan(&l.ID, &l.StoragePage, &l.Title, &l.Address, &l.Zip, &l.City, &l.Country,
		&l.Description, &l.Link, &l.Latitude, &l.Longitude)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	l, err := scanLocation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// FindAll lists every location regardless of its storage page.
func (r *locationRepository) FindAll(ctx context.Context) ([]*domain.Location, error) {
	return r.list(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY title, id`)
}

func (r *locationRepository) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Location, error) {
	ids := d.StoragePageIDs()
	if len(ids) == 0 {
		return r.FindAll(ctx)
	}
	return r.list(ctx, `SELECT `+locationColumns+` FROM locations WHERE pid = ANY($1) ORDER BY title, id`, pq.Array(ids))
}

func (r *locationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Location, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locations := make([]*domain.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
