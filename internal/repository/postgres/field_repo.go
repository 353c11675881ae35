package postgres

import (
	"context"
	"database/sql"

	"eventmgt/internal/domain"
)

type fieldRepository struct {
	DB *sql.DB
}

func NewFieldRepository(db *sql.DB) domain.FieldRepository {
	return &fieldRepository{DB: db}
}

func (r *fieldRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Field, error) {
	query := `
		SELECT id, event_id, title, type, required, settings, default_value, placeholder, sort
		FROM registration_fields
		WHERE event_id = $1
		ORDER BY sort, id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	fields := make([]*domain.Field, 0)
	for rows.Next() {
		f := &domain.Field{}
		if err := rows.Scan(&f.ID, &f.EventID, &f.Title, &f.Type, &f.Required, &f.Settings, &f.DefaultValue, &f.Placeholder, &f.Sort); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
