package httpapi

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/logging"
	"github.com/dmitrijs2005/wallet/internal/server/metrics"
	"github.com/dmitrijs2005/wallet/internal/server/models"
	"github.com/dmitrijs2005/wallet/internal/server/services"
)

// In-memory service fakes backing the transport tests. Tokens are of the
// form "tok-<username>" so the identity middleware can be exercised without
// real JWTs.

const tokenPrefix = "tok-"

type fakeAuthService struct {
	users map[string]*models.User // by lowercase username
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{users: map[string]*models.User{}}
}

func (f *fakeAuthService) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	key := strings.ToLower(username)
	if _, ok := f.users[key]; ok {
		return nil, common.ErrUsernameTaken
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return nil, common.ErrEmailTaken
		}
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: password,
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}
	f.users[key] = user
	return user, nil
}

func (f *fakeAuthService) SignIn(ctx context.Context, usernameOrEmail, password string) (*services.TokenPair, error) {
	user, ok := f.users[strings.ToLower(usernameOrEmail)]
	if !ok || user.PasswordHash != password {
		return nil, common.ErrAuthenticationFailed
	}
	return &services.TokenPair{
		AccessToken:  tokenPrefix + user.Username,
		RefreshToken: "refresh-" + user.Username,
	}, nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	username, ok := strings.CutPrefix(refreshToken, "refresh-")
	if !ok {
		return nil, common.ErrInvalidToken
	}
	user, ok := f.users[strings.ToLower(username)]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return &services.TokenPair{
		AccessToken:  tokenPrefix + user.Username,
		RefreshToken: "refresh-" + user.Username,
	}, nil
}

func (f *fakeAuthService) ResolveIdentity(ctx context.Context, subject string) (*models.User, error) {
	user, ok := f.users[strings.ToLower(subject)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (f *fakeAuthService) VerifyTokenFor(tokenString string, user *models.User) bool {
	return tokenString == tokenPrefix+user.Username
}

func (f *fakeAuthService) ExtractSubject(tokenString string) (string, error) {
	subject, ok := strings.CutPrefix(tokenString, tokenPrefix)
	if !ok {
		return "", common.ErrInvalidToken
	}
	return subject, nil
}

type fakeSpaceService struct {
	spaces map[string]*models.Space
}

func newFakeSpaceService() *fakeSpaceService {
	return &fakeSpaceService{spaces: map[string]*models.Space{}}
}

func (f *fakeSpaceService) Create(ctx context.Context, userID, name, description, currency string) (*models.Space, error) {
	space := &models.Space{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Currency:    strings.ToUpper(currency),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.spaces[space.ID] = space
	return space, nil
}

func (f *fakeSpaceService) GetByID(ctx context.Context, userID, spaceID string) (*models.Space, error) {
	space, ok := f.spaces[spaceID]
	if !ok || space.UserID != userID {
		return nil, common.ErrNotFound
	}
	return space, nil
}

func (f *fakeSpaceService) ListForUser(ctx context.Context, userID string) ([]*models.Space, error) {
	out := []*models.Space{}
	for _, space := range f.spaces {
		if space.UserID == userID {
			out = append(out, space)
		}
	}
	return out, nil
}

func (f *fakeSpaceService) Update(ctx context.Context, userID, spaceID, name, description string) (*models.Space, error) {
	space, err := f.GetByID(ctx, userID, spaceID)
	if err != nil {
		return nil, err
	}
	space.Name = name
	space.Description = description
	space.UpdatedAt = time.Now()
	return space, nil
}

func (f *fakeSpaceService) Delete(ctx context.Context, userID, spaceID string) error {
	if _, err := f.GetByID(ctx, userID, spaceID); err != nil {
		return err
	}
	delete(f.spaces, spaceID)
	return nil
}

type fakeTransactionService struct {
	spaces       *fakeSpaceService
	transactions map[string]*models.Transaction
}

func newFakeTransactionService(spaces *fakeSpaceService) *fakeTransactionService {
	return &fakeTransactionService{spaces: spaces, transactions: map[string]*models.Transaction{}}
}

func (f *fakeTransactionService) Create(ctx context.Context, userID, spaceID string, txType models.TransactionType,
	amount decimal.Decimal, date time.Time, description string) (*models.Transaction, error) {
	if _, err := f.spaces.GetByID(ctx, userID, spaceID); err != nil {
		return nil, err
	}
	tr := &models.Transaction{
		ID:              uuid.NewString(),
		SpaceID:         spaceID,
		UserID:          userID,
		Type:            txType,
		Amount:          amount,
		Description:     description,
		TransactionDate: date,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.transactions[tr.ID] = tr
	return tr, nil
}

func (f *fakeTransactionService) GetByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	tr, ok := f.transactions[transactionID]
	if !ok || tr.UserID != userID {
		return nil, common.ErrNotFound
	}
	return tr, nil
}

func (f *fakeTransactionService) ListForSpace(ctx context.Context, userID, spaceID string) ([]*models.Transaction, error) {
	if _, err := f.spaces.GetByID(ctx, userID, spaceID); err != nil {
		return nil, err
	}
	out := []*models.Transaction{}
	for _, tr := range f.transactions {
		if tr.SpaceID == spaceID {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (f *fakeTransactionService) ListForUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error) {
	if since.IsZero() {
		return []*models.Transaction{}, nil
	}
	out := []*models.Transaction{}
	for _, tr := range f.transactions {
		if tr.UserID == userID && tr.UpdatedAt.After(since) {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (f *fakeTransactionService) Update(ctx context.Context, userID, transactionID string,
	amount decimal.Decimal, date time.Time, description string) (*models.Transaction, error) {
	tr, err := f.GetByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	tr.Amount = amount
	tr.TransactionDate = date
	tr.Description = description
	tr.UpdatedAt = time.Now()
	return tr, nil
}

func (f *fakeTransactionService) Delete(ctx context.Context, userID, transactionID string) error {
	if _, err := f.GetByID(ctx, userID, transactionID); err != nil {
		return err
	}
	delete(f.transactions, transactionID)
	return nil
}

func newTestServer() (*Server, *fakeAuthService) {
	auth := newFakeAuthService()
	spaces := newFakeSpaceService()
	transactions := newFakeTransactionService(spaces)
	return New(logging.New("json"), auth, spaces, transactions, metrics.New()), auth
}
