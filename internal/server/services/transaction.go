package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/dbx"
	"github.com/dmitrijs2005/wallet/internal/server/models"
	"github.com/dmitrijs2005/wallet/internal/server/repositories/repomanager"
)

// TransactionService implements ownership-scoped CRUD for transactions.
// Creating or listing inside a space first verifies the caller owns that
// space, so transactions can never leak across users.
type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTransactionService constructs a TransactionService.
func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repomanager: m}
}

// dateInFuture reports whether d falls on a calendar day after today (UTC).
func dateInFuture(d time.Time) bool {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d = d.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(today)
}

func validateTransactionFields(amount decimal.Decimal, date time.Time) error {
	if amount.IsNegative() {
		return common.ErrValidation
	}
	if date.IsZero() || dateInFuture(date) {
		return common.ErrValidation
	}
	return nil
}

// Create verifies that spaceID exists and is owned by userID, then persists
// a transaction with the owner denormalized onto it. Amount and date are
// validated before anything touches the store.
func (s *TransactionService) Create(ctx context.Context, userID, spaceID string, txType models.TransactionType,
	amount decimal.Decimal, date time.Time, description string) (*models.Transaction, error) {

	if !txType.Valid() {
		return nil, common.ErrValidation
	}
	if err := validateTransactionFields(amount, date); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		ID:              uuid.NewString(),
		SpaceID:         spaceID,
		UserID:          userID,
		Type:            txType,
		Amount:          amount,
		Description:     description,
		TransactionDate: date,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		owned, err := s.repomanager.Spaces(tx).ExistsByIDAndOwner(ctx, spaceID, userID)
		if err != nil {
			return err
		}
		if !owned {
			return common.ErrNotFound
		}

		_, err = s.repomanager.Transactions(tx).Create(ctx, transaction)
		return err
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetByID returns the transaction only when it belongs to userID.
func (s *TransactionService) GetByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	return s.repomanager.Transactions(s.db).FindByIDAndOwner(ctx, transactionID, userID)
}

// ListForSpace verifies space ownership, then returns the space's
// transactions ordered by transaction date descending (creation time breaks
// ties).
func (s *TransactionService) ListForSpace(ctx context.Context, userID, spaceID string) ([]*models.Transaction, error) {
	var list []*models.Transaction
	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		owned, err := s.repomanager.Spaces(tx).ExistsByIDAndOwner(ctx, spaceID, userID)
		if err != nil {
			return err
		}
		if !owned {
			return common.ErrNotFound
		}

		list, err = s.repomanager.Transactions(tx).ListBySpace(ctx, spaceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListForUserSince returns the user's transactions updated strictly after
// since, ascending by updated_at, for incremental sync. A zero since yields
// an empty result rather than the full history.
func (s *TransactionService) ListForUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error) {
	if since.IsZero() {
		return []*models.Transaction{}, nil
	}
	return s.repomanager.Transactions(s.db).ListByOwnerUpdatedAfter(ctx, userID, since)
}

// Update re-resolves the transaction (existence + ownership) and mutates
// only amount, date and description. Space and type stay as created.
func (s *TransactionService) Update(ctx context.Context, userID, transactionID string,
	amount decimal.Decimal, date time.Time, description string) (*models.Transaction, error) {

	if err := validateTransactionFields(amount, date); err != nil {
		return nil, err
	}

	var transaction *models.Transaction
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Transactions(tx)

		existing, err := repo.FindByIDAndOwner(ctx, transactionID, userID)
		if err != nil {
			return err
		}

		existing.Amount = amount
		existing.TransactionDate = date
		existing.Description = description

		transaction, err = repo.Update(ctx, existing)
		return err
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// Delete re-resolves the transaction and removes it.
func (s *TransactionService) Delete(ctx context.Context, userID, transactionID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Transactions(tx)

		if _, err := repo.FindByIDAndOwner(ctx, transactionID, userID); err != nil {
			return err
		}

		return repo.Delete(ctx, transactionID, userID)
	})
}
