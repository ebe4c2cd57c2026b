package spaces

import (
	"context"

	"github.com/dmitrijs2005/wallet/internal/server/models"
)

// Repository is the space store contract. Owner-scoped methods treat an
// ownership mismatch exactly like absence.
type Repository interface {
	Create(ctx context.Context, space *models.Space) (*models.Space, error)
	FindByIDAndOwner(ctx context.Context, id, userID string) (*models.Space, error)
	ExistsByIDAndOwner(ctx context.Context, id, userID string) (bool, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Space, error)
	Update(ctx context.Context, space *models.Space) (*models.Space, error)
	Delete(ctx context.Context, id, userID string) error
}
