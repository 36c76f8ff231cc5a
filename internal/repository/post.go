package repository

import (
	"context"
	"errors"
	"fmt"

	"volunteer-network-backend/internal/errs"
	"volunteer-network-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, author_id, content, image_url, likes_count, comments_count, created_at`

// PostgresPostRepository handles database operations for posts
type PostgresPostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// Create creates a new post
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, content, image_url, likes_count, comments_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.AuthorID, post.Content, post.ImageURL,
		post.LikesCount, post.CommentsCount, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.one(ctx, "get post", query, id)
}

// List retrieves all posts in insertion order
func (r *PostgresPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// IncrementLikes bumps the like counter and returns the updated post
func (r *PostgresPostRepository) IncrementLikes(ctx context.Context, id string) (*models.Post, error) {
	query := `
		UPDATE posts SET likes_count = likes_count + 1
		WHERE id = $1
		RETURNING ` + postColumns
	return r.one(ctx, "like post", query, id)
}

// IncrementComments bumps the comment counter and returns the updated post
func (r *PostgresPostRepository) IncrementComments(ctx context.Context, id string) (*models.Post, error) {
	query := `
		UPDATE posts SET comments_count = comments_count + 1
		WHERE id = $1
		RETURNING ` + postColumns
	return r.one(ctx, "comment on post", query, id)
}

func (r *PostgresPostRepository) one(ctx context.Context, op, query string, args ...any) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFoundf("post not found")
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return post, nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Content, &post.ImageURL,
		&post.LikesCount, &post.CommentsCount, &post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
