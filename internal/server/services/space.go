package services

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/dbx"
	"github.com/dmitrijs2005/wallet/internal/server/models"
	"github.com/dmitrijs2005/wallet/internal/server/repositories/repomanager"
)

// currencyPattern matches a 3-letter ISO 4217-shaped code in any case;
// the stored value is always uppercased.
var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// SpaceService implements ownership-scoped CRUD for spaces. Every operation
// takes the caller's user id explicitly; a space that exists but belongs to
// someone else behaves exactly like a missing one.
type SpaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewSpaceService constructs a SpaceService.
func NewSpaceService(db *sql.DB, m repomanager.RepositoryManager) *SpaceService {
	return &SpaceService{db: db, repomanager: m}
}

func validateSpaceName(name string) error {
	if strings.TrimSpace(name) == "" || len(name) > 100 {
		return common.ErrValidation
	}
	return nil
}

// Create persists a new space owned by userID. Currency is normalized to
// uppercase and is immutable afterwards.
func (s *SpaceService) Create(ctx context.Context, userID, name, description, currency string) (*models.Space, error) {
	if err := validateSpaceName(name); err != nil {
		return nil, err
	}
	if !currencyPattern.MatchString(currency) {
		return nil, common.ErrValidation
	}

	space := &models.Space{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Currency:    strings.ToUpper(currency),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Spaces(tx).Create(ctx, space)
		return err
	})
	if err != nil {
		return nil, err
	}

	return space, nil
}

// GetByID returns the space only when it exists and belongs to userID.
func (s *SpaceService) GetByID(ctx context.Context, userID, spaceID string) (*models.Space, error) {
	return s.repomanager.Spaces(s.db).FindByIDAndOwner(ctx, spaceID, userID)
}

// ListForUser returns all spaces of userID ordered by creation time ascending.
func (s *SpaceService) ListForUser(ctx context.Context, userID string) ([]*models.Space, error) {
	return s.repomanager.Spaces(s.db).ListByOwner(ctx, userID)
}

// Update re-resolves the space (existence + ownership) and mutates only
// name and description. Currency and owner stay as created.
func (s *SpaceService) Update(ctx context.Context, userID, spaceID, name, description string) (*models.Space, error) {
	if err := validateSpaceName(name); err != nil {
		return nil, err
	}

	var space *models.Space
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Spaces(tx)

		existing, err := repo.FindByIDAndOwner(ctx, spaceID, userID)
		if err != nil {
			return err
		}

		existing.Name = name
		existing.Description = description

		space, err = repo.Update(ctx, existing)
		return err
	})
	if err != nil {
		return nil, err
	}

	return space, nil
}

// Delete re-resolves the space and removes it. Transactions inside the
// space are removed with it by the schema's cascade rule.
func (s *SpaceService) Delete(ctx context.Context, userID, spaceID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Spaces(tx)

		if _, err := repo.FindByIDAndOwner(ctx, spaceID, userID); err != nil {
			return err
		}

		return repo.Delete(ctx, spaceID, userID)
	})
}
