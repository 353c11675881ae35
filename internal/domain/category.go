package domain

import (
	"context"
	"time"
)

// Category groups events; categories form a tree through ParentID.
// swagger:model Category
type Category struct {
	ID          int64  `json:"id"`
	StoragePage int64  `json:"pid"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategoryRepository defines read access to categories.
type CategoryRepository interface {
	ListByIDs(ctx context.Context, ids []int64) ([]*Category, error)
	// ListChildIDs returns the ids of all direct children of the given parents.
	ListChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error)
	FindAll(ctx context.Context) ([]*Category, error)
	FindDemanded(ctx context.Context, demand ForeignRecordDemand) ([]*Category, error)
}

// CategoryExpander resolves a category id set to the set including all descendants.
type CategoryExpander interface {
	ExpandWithChildren(ctx context.Context, ids []int64) ([]int64, error)
}

// CategoryCache stores expanded category id lists. A miss returns found=false and no error.
type CategoryCache interface {
	Get(ctx context.Context, key string) (ids []int64, found bool, err error)
	Set(ctx context.Context, key string, ids []int64, ttl time.Duration) error
}
