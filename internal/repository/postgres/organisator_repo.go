package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventmgt/internal/domain"
)

type organisatorRepository struct {
	DB *sql.DB
}

func NewOrganisatorRepository(db *sql.DB) domain.OrganisatorRepository {
	return &organisatorRepository{DB: db}
}

func (r *organisatorRepository) GetByID(ctx context.Context, id int64) (*domain.Organisator, error) {
	query := `
		SELECT id, pid, name, email, phone
		FROM organisators
		WHERE id = $1
	`
	o := &domain.Organisator{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.StoragePage, &o.Name, &o.Email, &o.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// FindAll ignores storage pages so every organisator can be chosen in event filters.
func (r *organisatorRepository) FindAll(ctx context.Context) ([]*domain.Organisator, error) {
	return r.list(ctx, `SELECT id, pid, name, email, phone FROM organisators ORDER BY name, id`)
}

func (r *organisatorRepository) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Organisator, error) {
	ids := d.StoragePageIDs()
	if len(ids) == 0 {
		return r.FindAll(ctx)
	}
	return r.list(ctx, `SELECT id, pid, name, email, phone FROM organisators WHERE pid = ANY($1) ORDER BY name, id`, pq.Array(ids))
}

func (r *organisatorRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Organisator, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	organisators := make([]*domain.Organisator, 0)
	for rows.Next() {
		o := &domain.Organisator{}
		if err := rows.Scan(&o.ID, &o.StoragePage, &o.Name, &o.Email, &o.Phone); err != nil {
			return nil, err
		}
		organisators = append(organisators, o)
	}
	return organisators, rows.Err()
}
