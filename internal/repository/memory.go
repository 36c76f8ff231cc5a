package repository

import (
	"context"
	"sync"

	"volunteer-network-backend/internal/errs"
	"volunteer-network-backend/internal/models"
)

// collection is an insertion-ordered map guarded by a RWMutex.
// Values are copied in and out so callers never share stored records.
type collection[K comparable, V any] struct {
	mu    sync.RWMutex
	order []K
	items map[K]*V
}

func newCollection[K comparable, V any]() *collection[K, V] {
	return &collection[K, V]{items: make(map[K]*V)}
}

func (c *collection[K, V]) get(key K) (*V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.items[key]
	if !ok {
		return nil, false
	}
	cp := *v
	return &cp, true
}

// set stores value, keeping the original position of an existing key
func (c *collection[K, V]) set(key K, value *V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
	}
	cp := *value
	c.items[key] = &cp
}

func (c *collection[K, V]) insert(key K, value *V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return false
	}
	c.order = append(c.order, key)
	cp := *value
	c.items[key] = &cp
	return true
}

func (c *collection[K, V]) delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// update applies fn to the stored value under the write lock
func (c *collection[K, V]) update(key K, fn func(*V)) (*V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items[key]
	if !ok {
		return nil, false
	}
	fn(v)
	cp := *v
	return &cp, true
}

func (c *collection[K, V]) list() []*V {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*V, 0, len(c.order))
	for _, k := range c.order {
		cp := *c.items[k]
		out = append(out, &cp)
	}
	return out
}

// MemoryUserRepository keeps users in process memory
type MemoryUserRepository struct {
	users *collection[string, models.User]
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: newCollection[string, models.User]()}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if !r.users.insert(user.ID, user) {
		return errs.Conflictf("user %s already exists", user.ID)
	}
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.users.get(id)
	if !ok {
		return nil, errs.NotFoundf("user not found")
	}
	return user, nil
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.users.list(), nil
}

// MemoryConnectionRepository keeps connection edges in process memory
type MemoryConnectionRepository struct {
	edges *collection[models.EdgeKey, models.ConnectionEdge]
}

// NewMemoryConnectionRepository creates an empty in-memory edge repository
func NewMemoryConnectionRepository() *MemoryConnectionRepository {
	return &MemoryConnectionRepository{edges: newCollection[models.EdgeKey, models.ConnectionEdge]()}
}

func (r *MemoryConnectionRepository) Get(ctx context.Context, key models.EdgeKey) (*models.ConnectionEdge, error) {
	edge, ok := r.edges.get(key)
	if !ok {
		return nil, errs.NotFoundf("connection not found")
	}
	return edge, nil
}

func (r *MemoryConnectionRepository) Insert(ctx context.Context, edge *models.ConnectionEdge) error {
	if !r.edges.insert(edge.Key(), edge) {
		return errs.Conflictf("connection already exists")
	}
	return nil
}

func (r *MemoryConnectionRepository) Set(ctx context.Context, edge *models.ConnectionEdge) error {
	r.edges.set(edge.Key(), edge)
	return nil
}

func (r *MemoryConnectionRepository) Delete(ctx context.Context, key models.EdgeKey) error {
	r.edges.delete(key)
	return nil
}

func (r *MemoryConnectionRepository) List(ctx context.Context) ([]*models.ConnectionEdge, error) {
	return r.edges.list(), nil
}

// MemoryPostRepository keeps posts in process memory
type MemoryPostRepository struct {
	posts *collection[string, models.Post]
}

// NewMemoryPostRepository creates an empty in-memory post repository
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: newCollection[string, models.Post]()}
}

func (r *MemoryPostRepository) Create(ctx context.Context, post *models.Post) error {
	if !r.posts.insert(post.ID, post) {
		return errs.Conflictf("post %s already exists", post.ID)
	}
	return nil
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, ok := r.posts.get(id)
	if !ok {
		return nil, errs.NotFoundf("post not found")
	}
	return post, nil
}

func (r *MemoryPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.posts.list(), nil
}

func (r *MemoryPostRepository) IncrementLikes(ctx context.Context, id string) (*models.Post, error) {
	post, ok := r.posts.update(id, func(p *models.Post) { p.LikesCount++ })
	if !ok {
		return nil, errs.NotFoundf("post not found")
	}
	return post, nil
}

func (r *MemoryPostRepository) IncrementComments(ctx context.Context, id string) (*models.Post, error) {
	post, ok := r.posts.update(id, func(p *models.Post) { p.CommentsCount++ })
	if !ok {
		return nil, errs.NotFoundf("post not found")
	}
	return post, nil
}

// MemoryImpactRepository keeps impact entries in process memory
type MemoryImpactRepository struct {
	entries *collection[string, models.ImpactEntry]
}

// NewMemoryImpactRepository creates an empty in-memory impact repository
func NewMemoryImpactRepository() *MemoryImpactRepository {
	return &MemoryImpactRepository{entries: newCollection[string, models.ImpactEntry]()}
}

func (r *MemoryImpactRepository) Create(ctx context.Context, entry *models.ImpactEntry) error {
	if !r.entries.insert(entry.ID, entry) {
		return errs.Conflictf("impact entry %s already exists", entry.ID)
	}
	return nil
}

func (r *MemoryImpactRepository) List(ctx context.Context) ([]*models.ImpactEntry, error) {
	return r.entries.list(), nil
}
