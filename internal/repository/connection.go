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

const connectionColumns = `id, follower_id, following_id, status, message, created_at, connected_at`

// PostgresConnectionRepository handles database operations for connection edges.
// The (follower_id, following_id) pair is the primary key.
type PostgresConnectionRepository struct {
	db *pgxpool.Pool
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *pgxpool.Pool) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// Get retrieves an edge by its ordered pair
func (r *PostgresConnectionRepository) Get(ctx context.Context, key models.EdgeKey) (*models.ConnectionEdge, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE follower_id = $1 AND following_id = $2
	`
	edge, err := scanEdge(r.db.QueryRow(ctx, query, key.FollowerID, key.FollowingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFoundf("connection not found")
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return edge, nil
}

// Insert creates an edge unless one already exists for the pair
func (r *PostgresConnectionRepository) Insert(ctx context.Context, edge *models.ConnectionEdge) error {
	query := `
		INSERT INTO connections (id, follower_id, following_id, status, message, created_at, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	result, err := r.db.Exec(ctx, query,
		edge.ID, edge.FollowerID, edge.FollowingID, edge.Status,
		edge.Message, edge.CreatedAt, edge.ConnectedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.Conflictf("connection already exists")
	}
	return nil
}

// Set creates or replaces an edge
func (r *PostgresConnectionRepository) Set(ctx context.Context, edge *models.ConnectionEdge) error {
	query := `
		INSERT INTO connections (id, follower_id, following_id, status, message, created_at, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (follower_id, following_id) DO UPDATE
		SET id = EXCLUDED.id,
		    status = EXCLUDED.status,
		    message = EXCLUDED.message,
		    created_at = EXCLUDED.created_at,
		    connected_at = EXCLUDED.connected_at
	`
	_, err := r.db.Exec(ctx, query,
		edge.ID, edge.FollowerID, edge.FollowingID, edge.Status,
		edge.Message, edge.CreatedAt, edge.ConnectedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}
	return nil
}

// Delete removes an edge; a missing edge is not an error
func (r *PostgresConnectionRepository) Delete(ctx context.Context, key models.EdgeKey) error {
	query := `DELETE FROM connections WHERE follower_id = $1 AND following_id = $2`
	if _, err := r.db.Exec(ctx, query, key.FollowerID, key.FollowingID); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// List retrieves all edges in insertion order
func (r *PostgresConnectionRepository) List(ctx context.Context) ([]*models.ConnectionEdge, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var edges []*models.ConnectionEdge
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		edges = append(edges, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}

	return edges, nil
}

func scanEdge(row pgx.Row) (*models.ConnectionEdge, error) {
	var edge models.ConnectionEdge
	var status string
	err := row.Scan(
		&edge.ID, &edge.FollowerID, &edge.FollowingID, &status,
		&edge.Message, &edge.CreatedAt, &edge.ConnectedAt,
	)
	if err != nil {
		return nil, err
	}
	edge.Status = models.ConnectionStatus(status)
	return &edge, nil
}
