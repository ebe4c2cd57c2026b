// Package spaces provides the PostgreSQL-backed space store.
package spaces

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/dbx"
	"github.com/dmitrijs2005/wallet/internal/server/models"
)

// PostgresRepository implements space storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new space. Timestamps come back from the DB defaults.
func (r *PostgresRepository) Create(ctx context.Context, space *models.Space) (*models.Space, error) {

	query :=
		`INSERT INTO spaces (id, user_id, name, description, currency)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		space.ID, space.UserID, space.Name, space.Description, space.Currency).
		Scan(&space.CreatedAt, &space.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return space, nil
}

// FindByIDAndOwner returns the space only when it exists and belongs to
// userID; otherwise common.ErrNotFound.
func (r *PostgresRepository) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.Space, error) {
	query :=
		`SELECT id, user_id, name, description, currency, created_at, updated_at
		 FROM spaces
		 WHERE id = $1 AND user_id = $2
		 `

	space := &models.Space{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&space.ID, &space.UserID, &space.Name, &space.Description, &space.Currency,
		&space.CreatedAt, &space.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return space, nil
}

func (r *PostgresRepository) ExistsByIDAndOwner(ctx context.Context, id, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM spaces WHERE id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListByOwner returns all spaces of userID ordered by creation time ascending.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Space, error) {
	query :=
		`SELECT id, user_id, name, description, currency, created_at, updated_at
		 FROM spaces
		 WHERE user_id = $1
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select spaces: %w", err)
	}
	defer rows.Close()

	var result []*models.Space
	for rows.Next() {
		var item models.Space
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Name, &item.Description, &item.Currency,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update persists the mutable fields (name, description) of an owned space.
// Currency and owner never appear in the statement, so they cannot change.
func (r *PostgresRepository) Update(ctx context.Context, space *models.Space) (*models.Space, error) {
	query :=
		`UPDATE spaces
		 SET name = $1, description = $2, updated_at = now()
		 WHERE id = $3 AND user_id = $4
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		space.Name, space.Description, space.ID, space.UserID).
		Scan(&space.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return space, nil
}

// Delete removes an owned space. Dependent transactions go with it via the
// schema's ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM spaces WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
