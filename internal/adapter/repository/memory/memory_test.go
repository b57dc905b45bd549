package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/uriz/internal/entity"
)

func TestURLRepository_Forward(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "ab2de")
	require.NoError(t, err)
	assert.False(t, exists)

	url, err := repo.GetForward(ctx, "ab2de")
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Nil(t, url)

	err = repo.InsertForward(ctx, &entity.ShortURL{Token: "ab2de", LongURL: "https://example.com/a", CreatedAt: 100})
	require.NoError(t, err)

	err = repo.InsertForward(ctx, &entity.ShortURL{Token: "ab2de", LongURL: "https://example.com/b"})
	assert.ErrorIs(t, err, entity.ErrTokenExists)

	exists, err = repo.Exists(ctx, "ab2de")
	require.NoError(t, err)
	assert.True(t, exists)

	url, err = repo.GetForward(ctx, "ab2de")
	require.NoError(t, err)
	assert.Equal(t, entity.ShortURL{Token: "ab2de", LongURL: "https://example.com/a", CreatedAt: 100}, *url)
}

func TestURLRepository_Reverse(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	_, err := repo.GetReverse(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, repo.InsertReverse(ctx, &entity.ReverseIndex{LongURL: "https://example.com/a", Token: "ab2de"}))
	require.NoError(t, repo.InsertReverse(ctx, &entity.ReverseIndex{LongURL: "https://example.com/a", Token: "xy3zw"}))

	tok, err := repo.GetReverse(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "xy3zw", tok)
}

func TestURLRepository_IncrementVisits(t *testing.T) {
	t.Run("url not found", func(t *testing.T) {
		repo := NewURLRepository()

		err := repo.IncrementVisits(context.Background(), "ab2de")

		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("concurrent increments", func(t *testing.T) {
		const n = 200

		repo := NewURLRepository()
		ctx := context.Background()
		require.NoError(t, repo.InsertForward(ctx, &entity.ShortURL{Token: "ab2de", LongURL: "https://example.com/a"}))

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, repo.IncrementVisits(ctx, "ab2de"))
			}()
		}
		wg.Wait()

		url, err := repo.GetForward(ctx, "ab2de")
		require.NoError(t, err)
		assert.Equal(t, int64(n), url.Visits)
	})
}
