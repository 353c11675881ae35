package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"eventmgt/internal/domain"
)

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Category, error) {
	if len(ids) == 0 {
		return []*domain.Category{}, nil
	}
	query := `
		SELECT id, pid, parent_id, title, description
		FROM categories
		WHERE id = ANY($1)
		ORDER BY title, id
	`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *categoryRepository) ListChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	if len(parentIDs) == 0 {
		return []int64{}, nil
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM categories WHERE parent_id = ANY($1) ORDER BY id`, pq.Array(parentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	return r.list(ctx, `SELECT id, pid, parent_id, title, description FROM categories ORDER BY title, id`)
}

func (r *categoryRepository) FindDemanded(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Category, error) {
	ids := d.StoragePageIDs()
	if len(ids) == 0 {
		return r.FindAll(ctx)
	}
	return r.list(ctx, `SELECT id, pid, parent_id, title, description FROM categories WHERE pid = ANY($1) ORDER BY title, id`, pq.Array(ids))
}

func (r *categoryRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := make([]*domain.Category, 0)
	for rows.Next() {
		c := &domain.Category{}
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.StoragePage, &parent, &c.Title, &c.Description); err != nil {
			return nil, err
		}
		c.ParentID = int64Ptr(parent)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
