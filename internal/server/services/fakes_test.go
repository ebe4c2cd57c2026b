package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/wallet/internal/dbx"
	"github.com/dmitrijs2005/wallet/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/wallet/internal/server/repositories/refreshtokens"
	spacesrepo "github.com/dmitrijs2005/wallet/internal/server/repositories/spaces"
	transactionsrepo "github.com/dmitrijs2005/wallet/internal/server/repositories/transactions"
	usersrepo "github.com/dmitrijs2005/wallet/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createErr error
	created   *models.User

	existsUsername bool
	existsEmail    bool
	existsErr      error

	findByIDOut       *models.User
	findByIDErr       error
	findByUsernameOut *models.User
	findByUsernameErr error
	findByEmailOut    *models.User
	findByEmailErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.findByIDOut, f.findByIDErr
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.findByUsernameOut, f.findByUsernameErr
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.findByEmailOut, f.findByEmailErr
}

func (f *fakeUsersRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return f.existsUsername, f.existsErr
}

func (f *fakeUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.existsEmail, f.existsErr
}

type fakeSpacesRepo struct {
	createErr error
	created   *models.Space

	findOut *models.Space
	findErr error

	existsOut bool
	existsErr error

	listOut []*models.Space
	listErr error

	updateErr error
	updated   *models.Space

	deleteErr error
	deletedID string
}

func (f *fakeSpacesRepo) Create(ctx context.Context, s *models.Space) (*models.Space, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = s
	return s, nil
}

func (f *fakeSpacesRepo) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.Space, error) {
	return f.findOut, f.findErr
}

func (f *fakeSpacesRepo) ExistsByIDAndOwner(ctx context.Context, id, userID string) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeSpacesRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Space, error) {
	return f.listOut, f.listErr
}

func (f *fakeSpacesRepo) Update(ctx context.Context, s *models.Space) (*models.Space, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = s
	return s, nil
}

func (f *fakeSpacesRepo) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr == nil {
		f.deletedID = id
	}
	return f.deleteErr
}

type fakeTransactionsRepo struct {
	createErr error
	created   *models.Transaction

	findOut *models.Transaction
	findErr error

	listBySpaceOut    []*models.Transaction
	listBySpaceErr    error
	listBySpaceCalled bool

	listSinceOut    []*models.Transaction
	listSinceErr    error
	listSinceCalled bool

	updateErr error
	updated   *models.Transaction

	deleteErr error
	deletedID string
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, tr *models.Transaction) (*models.Transaction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = tr
	return tr, nil
}

func (f *fakeTransactionsRepo) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.Transaction, error) {
	return f.findOut, f.findErr
}

func (f *fakeTransactionsRepo) ListBySpace(ctx context.Context, spaceID string) ([]*models.Transaction, error) {
	f.listBySpaceCalled = true
	return f.listBySpaceOut, f.listBySpaceErr
}

func (f *fakeTransactionsRepo) ListByOwnerUpdatedAfter(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error) {
	f.listSinceCalled = true
	return f.listSinceOut, f.listSinceErr
}

func (f *fakeTransactionsRepo) Update(ctx context.Context, tr *models.Transaction) (*models.Transaction, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = tr
	return tr, nil
}

func (f *fakeTransactionsRepo) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr == nil {
		f.deletedID = id
	}
	return f.deleteErr
}

type fakeRefreshRepo struct {
	createErr     error
	createdUserID string
	createdToken  string

	findOut *models.RefreshToken
	findErr error

	delErr       error
	deletedToken string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr == nil {
		f.createdUserID = userID
		f.createdToken = token
	}
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	return f.findOut, f.findErr
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr == nil {
		f.deletedToken = token
	}
	return f.delErr
}

// --- fake repository manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	sp *fakeSpacesRepo
	tr *fakeTransactionsRepo
	rt *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  &fakeUsersRepo{},
		sp: &fakeSpacesRepo{},
		tr: &fakeTransactionsRepo{},
		rt: &fakeRefreshRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }

func (m *fakeRepoManager) Spaces(db dbx.DBTX) spacesrepo.Repository { return m.sp }

func (m *fakeRepoManager) Transactions(db dbx.DBTX) transactionsrepo.Repository { return m.tr }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.rt }
