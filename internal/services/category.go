package services

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"eventmgt/internal/domain"
)

// categoryService expands category ids with their descendants.
type categoryService struct {
	repo   domain.CategoryRepository
	cache  domain.CategoryCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCategoryService returns a CategoryExpander. cache may be nil.
func NewCategoryService(repo domain.CategoryRepository, cache domain.CategoryCache, ttl time.Duration, logger *slog.Logger) domain.CategoryExpander {
	return &categoryService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// ExpandWithChildren walks the category tree breadth first. The result starts
// with the seeds in their given order, contains every id once and is stable
// for equal input.
func (s *categoryService) ExpandWithChildren(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	key := cacheKey(ids)
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "category cache read failed", "key", key, "err", err)
		} else if found {
			return cached, nil
		}
	}

	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	var level []int64
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
		level = append(level, id)
	}
	for len(level) > 0 {
		children, err := s.repo.ListChildIDs(ctx, level)
		if err != nil {
			return nil, err
		}
		var next []int64
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
			next = append(next, id)
		}
		level = next
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "category cache write failed", "key", key, "err", err)
		}
	}
	return result, nil
}

// cacheKey is the sorted, deduplicated seed list. Results for the same seed
// set in a different order share the entry.
func cacheKey(ids []int64) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
