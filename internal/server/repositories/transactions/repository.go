package transactions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/wallet/internal/server/models"
)

// Repository is the transaction store contract.
type Repository interface {
	Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error)
	FindByIDAndOwner(ctx context.Context, id, userID string) (*models.Transaction, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*models.Transaction, error)
	ListByOwnerUpdatedAfter(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
}
