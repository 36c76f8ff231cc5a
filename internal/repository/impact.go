package repository

import (
	"context"
	"fmt"

	"volunteer-network-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresImpactRepository reads impact entries written by the hours tracker
type PostgresImpactRepository struct {
	db *pgxpool.Pool
}

// NewImpactRepository creates a new impact repository
func NewImpactRepository(db *pgxpool.Pool) *PostgresImpactRepository {
	return &PostgresImpactRepository{db: db}
}

// Create stores an impact entry
func (r *PostgresImpactRepository) Create(ctx context.Context, entry *models.ImpactEntry) error {
	query := `
		INSERT INTO impact_entries (id, user_id, opportunity_title, organization_name, hours, status, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.OpportunityTitle, entry.OrganizationName,
		entry.Hours, entry.Status, entry.Date, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create impact entry: %w", err)
	}
	return nil
}

// List retrieves all impact entries in insertion order
func (r *PostgresImpactRepository) List(ctx context.Context) ([]*models.ImpactEntry, error) {
	query := `
		SELECT id, user_id, opportunity_title, organization_name, hours, status, date, created_at
		FROM impact_entries
		ORDER BY seq
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list impact entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ImpactEntry
	for rows.Next() {
		var entry models.ImpactEntry
		var status string
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.OpportunityTitle, &entry.OrganizationName,
			&entry.Hours, &status, &entry.Date, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan impact entry: %w", err)
		}
		entry.Status = models.ImpactStatus(status)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating impact entries: %w", err)
	}

	return entries, nil
}
