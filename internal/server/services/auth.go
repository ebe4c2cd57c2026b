// Package services contains server-side business logic. This file implements
// AuthService, which handles signup, signin, per-request identity resolution,
// and issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"database/sql"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/dbx"
	"github.com/dmitrijs2005/wallet/internal/server/auth"
	"github.com/dmitrijs2005/wallet/internal/server/config"
	"github.com/dmitrijs2005/wallet/internal/server/models"
	"github.com/dmitrijs2005/wallet/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
// - SignUp: create users
// - SignIn: verify credentials and mint tokens
// - Refresh: rotate refresh tokens and mint new access tokens
// - ResolveIdentity: load the user record behind a token subject
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// SignUp creates a new user with the default role. The existence checks and
// the insert run in one transaction; a concurrent duplicate still surfaces
// as the conflict error through the unique indexes.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrValidation
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := repo.ExistsByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			return common.ErrUsernameTaken
		}

		taken, err = repo.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("error checking email: %w", err)
		}
		if taken {
			return common.ErrEmailTaken
		}

		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SignIn verifies the provided credentials and, on success, returns a new
// TokenPair. Lookup tries username first, then email, both case-insensitive.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, usernameOrEmail, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByUsername(ctx, usernameOrEmail)
	if errors.Is(err, common.ErrNotFound) {
		user, err = repo.FindByEmail(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, common.ErrInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrAuthenticationFailed
	}

	return s.generateTokenPair(ctx, user, s.db)
}

// Refresh validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
// Lookup, expiry check and deletion all run inside one transaction: of two
// concurrent rotations of the same token, only the one whose delete removed
// the row gets a new pair, the other fails with ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)

		token, err := repo.Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}
		if token.Expires.Before(time.Now()) {
			return common.ErrRefreshTokenExpired
		}

		user, err := s.repomanager.Users(tx).FindByID(ctx, token.UserID)
		if err != nil {
			return common.ErrInternal
		}

		if err := repo.Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// ResolveIdentity loads the user record behind a token subject (username,
// case-insensitive). Used by the request filter after subject extraction.
func (s *AuthService) ResolveIdentity(ctx context.Context, subject string) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByUsername(ctx, subject)
}

// VerifyTokenFor reports whether tokenString is a valid, unexpired token
// belonging to user.
func (s *AuthService) VerifyTokenFor(tokenString string, user *models.User) bool {
	return auth.IsValidFor(tokenString, user, s.jwtSecret)
}

// ExtractSubject returns the verified subject of an access token.
func (s *AuthService) ExtractSubject(tokenString string) (string, error) {
	return auth.ExtractSubject(tokenString, s.jwtSecret)
}

// --- helpers below ---

func (s *AuthService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
