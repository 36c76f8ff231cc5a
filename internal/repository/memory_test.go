package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"volunteer-network-backend/internal/errs"
	"volunteer-network-backend/internal/models"
	"volunteer-network-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edge(from, to string, status models.ConnectionStatus) *models.ConnectionEdge {
	return &models.ConnectionEdge{
		ID:          from + ":" + to,
		FollowerID:  from,
		FollowingID: to,
		Status:      status,
		CreatedAt:   time.Now(),
	}
}

func TestMemoryConnections_InsertConflict(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConnectionRepository()

	require.NoError(t, repo.Insert(ctx, edge("a", "b", models.StatusPending)))

	err := repo.Insert(ctx, edge("a", "b", models.StatusPending))
	assert.True(t, errs.Is(err, errs.Conflict))

	// the reverse direction is a different key
	assert.NoError(t, repo.Insert(ctx, edge("b", "a", models.StatusPending)))
}

func TestMemoryConnections_KeysWithDelimiterDoNotCollide(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConnectionRepository()

	require.NoError(t, repo.Insert(ctx, edge("a-b", "c", models.StatusPending)))
	require.NoError(t, repo.Insert(ctx, edge("a", "b-c", models.StatusPending)))

	edges, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestMemoryConnections_SetKeepsPositionAndDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConnectionRepository()

	require.NoError(t, repo.Insert(ctx, edge("a", "b", models.StatusPending)))
	require.NoError(t, repo.Insert(ctx, edge("c", "d", models.StatusPending)))
	require.NoError(t, repo.Set(ctx, edge("a", "b", models.StatusAccepted)))

	edges, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "a", edges[0].FollowerID)
	assert.Equal(t, models.StatusAccepted, edges[0].Status)

	key := models.EdgeKey{FollowerID: "a", FollowingID: "b"}
	require.NoError(t, repo.Delete(ctx, key))
	require.NoError(t, repo.Delete(ctx, key))

	_, err = repo.Get(ctx, key)
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestMemoryConnections_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryConnectionRepository()
	require.NoError(t, repo.Insert(ctx, edge("a", "b", models.StatusPending)))

	got, err := repo.Get(ctx, models.EdgeKey{FollowerID: "a", FollowingID: "b"})
	require.NoError(t, err)
	got.Status = models.StatusAccepted

	again, err := repo.Get(ctx, models.EdgeKey{FollowerID: "a", FollowingID: "b"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, again.Status)
}

func TestMemoryPosts_ConcurrentLikes(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPostRepository()
	require.NoError(t, repo.Create(ctx, &models.Post{ID: "p1", AuthorID: "a", Content: "hi"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.IncrementLikes(ctx, "p1")
		}()
	}
	wg.Wait()

	post, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 50, post.LikesCount)

	_, err = repo.IncrementComments(ctx, "missing")
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestSeed_LoadsFixtureOnce(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	require.NoError(t, repository.Seed(ctx, store))
	require.NoError(t, repository.Seed(ctx, store))

	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 6)
	assert.Equal(t, "user-1", users[0].ID)

	edges, err := store.Connections.List(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 9)

	reverse, err := store.Connections.Get(ctx, models.EdgeKey{FollowerID: "user-2", FollowingID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, reverse.Status)
}
