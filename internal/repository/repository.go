package repository

import (
	"context"

	"volunteer-network-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository reads and stores users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// ConnectionRepository stores directed connection edges keyed by ordered pair
type ConnectionRepository interface {
	Get(ctx context.Context, key models.EdgeKey) (*models.ConnectionEdge, error)
	// Insert fails with a conflict error when the key is already present
	Insert(ctx context.Context, edge *models.ConnectionEdge) error
	Set(ctx context.Context, edge *models.ConnectionEdge) error
	// Delete does not fail when the key is absent
	Delete(ctx context.Context, key models.EdgeKey) error
	List(ctx context.Context) ([]*models.ConnectionEdge, error)
}

// PostRepository stores posts and their counters
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	IncrementLikes(ctx context.Context, id string) (*models.Post, error)
	IncrementComments(ctx context.Context, id string) (*models.Post, error)
}

// ImpactRepository reads volunteer impact entries
type ImpactRepository interface {
	Create(ctx context.Context, entry *models.ImpactEntry) error
	List(ctx context.Context) ([]*models.ImpactEntry, error)
}

// Store bundles the collections both services read from.
// List methods return records in insertion order.
type Store struct {
	Users       UserRepository
	Connections ConnectionRepository
	Posts       PostRepository
	Impact      ImpactRepository
}

// NewMemoryStore creates a process-local store
func NewMemoryStore() *Store {
	return &Store{
		Users:       NewMemoryUserRepository(),
		Connections: NewMemoryConnectionRepository(),
		Posts:       NewMemoryPostRepository(),
		Impact:      NewMemoryImpactRepository(),
	}
}

// NewPostgresStore creates a store backed by PostgreSQL
func NewPostgresStore(db *pgxpool.Pool) *Store {
	return &Store{
		Users:       NewUserRepository(db),
		Connections: NewConnectionRepository(db),
		Posts:       NewPostRepository(db),
		Impact:      NewImpactRepository(db),
	}
}
