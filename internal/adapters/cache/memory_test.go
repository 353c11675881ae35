package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCategoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCategoryCache().(*memoryCategoryCache)
	c.now = func() time.Time { return now }

	_, found, err := c.Get(ctx, "1,2")
	require.NoError(t, err)
	assert.False(t, found)

	ids := []int64{1, 2, 5}
	require.NoError(t, c.Set(ctx, "1,2", ids, time.Minute))
	ids[0] = 99

	got, found, err := c.Get(ctx, "1,2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int64{1, 2, 5}, got)

	now = now.Add(time.Minute)
	_, found, err = c.Get(ctx, "1,2")
	require.NoError(t, err)
	assert.False(t, found)
}
