package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventmgt/internal/domain"
)

const speakerColumns = `id, pid, name, job_title, description, image`

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

func scanSpeaker(s rowScanner) (*domain.Speaker, error) {
	sp := &domain.Speaker{}
	if err := s.Scan(&sp.ID, &sp.StoragePage, &sp.Name, &sp.JobTitle, &sp.Description, &sp.Image); err != nil {
		return nil, err
	}
	return sp, nil
}

func (r *speakerRepository) GetByID(ctx context.Context, id int64) (*domain.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id = $1`
	sp, err := scanSpeaker(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sp, nil
}

// ListByIDs returns the speakers with the given ids ordered by name; unknown ids are skipped.
func (r *speakerRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Speaker, error) {
	if len(ids) == 0 {
		return []*domain.Speaker{}, nil
	}
	return r.list(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE id = ANY($1) ORDER BY name, id`, pq.Array(ids))
}

func (r *speakerRepository) FindAll(ctx context.Context) ([]*domain.Speaker, error) {
	return r.list(ctx, `SELECT `+speakerColumns+` FROM speakers ORDER BY name, id`)
}

func (r *speakerRepository) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Speaker, error) {
	ids := d.StoragePageIDs()
	if len(ids) == 0 {
		return r.FindAll(ctx)
	}
	return r.list(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE pid = ANY($1) ORDER BY name, id`, pq.Array(ids))
}

func (r *speakerRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Speaker, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		sp, err := scanSpeaker(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, sp)
	}
	return speakers, rows.Err()
}
