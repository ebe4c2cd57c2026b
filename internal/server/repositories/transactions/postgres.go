// Package transactions provides the PostgreSQL-backed transaction store.
package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/dbx"
	"github.com/dmitrijs2005/wallet/internal/server/models"
)

// PostgresRepository implements transaction storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const transactionColumns = `id, space_id, user_id, type, amount, description, transaction_date, created_at, updated_at`

func (r *PostgresRepository) scanRows(rows *sql.Rows) ([]*models.Transaction, error) {
	var result []*models.Transaction
	for rows.Next() {
		var item models.Transaction
		if err := rows.Scan(
			&item.ID, &item.SpaceID, &item.UserID, &item.Type, &item.Amount,
			&item.Description, &item.TransactionDate, &item.CreatedAt, &item.UpdatedAt,
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

// Create inserts a new transaction. The caller has already verified space
// ownership; user_id arrives denormalized on the model.
func (r *PostgresRepository) Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error) {

	query :=
		`INSERT INTO transactions (id, space_id, user_id, type, amount, description, transaction_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		transaction.ID, transaction.SpaceID, transaction.UserID, transaction.Type,
		transaction.Amount, transaction.Description, transaction.TransactionDate).
		Scan(&transaction.CreatedAt, &transaction.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

// FindByIDAndOwner returns the transaction only when it belongs to userID;
// otherwise common.ErrNotFound.
func (r *PostgresRepository) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		 FROM transactions
		 WHERE id = $1 AND user_id = $2
		 `

	transaction := &models.Transaction{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&transaction.ID, &transaction.SpaceID, &transaction.UserID, &transaction.Type,
		&transaction.Amount, &transaction.Description, &transaction.TransactionDate,
		&transaction.CreatedAt, &transaction.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

// ListBySpace returns the transactions of a space, newest transaction date
// first, ties broken by creation time descending. Ownership of the space is
// the caller's responsibility.
func (r *PostgresRepository) ListBySpace(ctx context.Context, spaceID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		 FROM transactions
		 WHERE space_id = $1
		 ORDER BY transaction_date DESC, created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// ListByOwnerUpdatedAfter returns the user's transactions with updated_at
// strictly after since, ordered ascending by updated_at, for incremental
// client sync.
func (r *PostgresRepository) ListByOwnerUpdatedAfter(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		 FROM transactions
		 WHERE user_id = $1 AND updated_at > $2
		 ORDER BY updated_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// Update persists the mutable fields (amount, date, description) of an owned
// transaction. space_id and type never appear in the statement.
func (r *PostgresRepository) Update(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error) {
	query :=
		`UPDATE transactions
		 SET amount = $1, transaction_date = $2, description = $3, updated_at = now()
		 WHERE id = $4 AND user_id = $5
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		transaction.Amount, transaction.TransactionDate, transaction.Description,
		transaction.ID, transaction.UserID).
		Scan(&transaction.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

// Delete removes an owned transaction.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

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
