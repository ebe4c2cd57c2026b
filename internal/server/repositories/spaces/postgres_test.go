package spaces

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/wallet/internal/common"
	"github.com/dmitrijs2005/wallet/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+spaces\s*\(id,\s*user_id,\s*name,\s*description,\s*currency\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("s-1", "u-1", "Household", "desc", "USD").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	s := &models.Space{ID: "s-1", UserID: "u-1", Name: "Household", Description: "desc", Currency: "USD"}
	got, err := repo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected space: %+v", got)
	}
}

func TestFindByIDAndOwner_OwnershipMismatchIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+spaces\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("s-1", "u-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByIDAndOwner(context.Background(), "s-1", "u-2")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByIDAndOwner_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "description", "currency", "created_at", "updated_at"}).
		AddRow("s-1", "u-1", "Household", "desc", "USD", now, now)
	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+spaces\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("s-1", "u-1").
		WillReturnRows(rows)

	got, err := repo.FindByIDAndOwner(context.Background(), "s-1", "u-1")
	if err != nil {
		t.Fatalf("FindByIDAndOwner error: %v", err)
	}
	if got.Currency != "USD" || got.UserID != "u-1" {
		t.Fatalf("unexpected space: %+v", got)
	}
}

func TestExistsByIDAndOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+EXISTS\(SELECT\s+1\s+FROM\s+spaces\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\)`).
		WithArgs("s-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByIDAndOwner(context.Background(), "s-1", "u-1")
	if err != nil {
		t.Fatalf("ExistsByIDAndOwner error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
}

func TestListByOwner_OrderedByCreation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "description", "currency", "created_at", "updated_at"}).
		AddRow("s-1", "u-1", "First", "", "USD", now.Add(-time.Hour), now).
		AddRow("s-2", "u-1", "Second", "", "EUR", now, now)
	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+spaces\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+ASC`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s-1" || got[1].ID != "s-2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdate_NotOwnedIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+spaces\s+SET\s+name\s*=\s*\$1,\s*description\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$3\s+AND\s+user_id\s*=\s*\$4\s+RETURNING\s+updated_at`).
		WithArgs("New", "d", "s-1", "u-2").
		WillReturnError(sql.ErrNoRows)

	s := &models.Space{ID: "s-1", UserID: "u-2", Name: "New", Description: "d"}
	_, err := repo.Update(context.Background(), s)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+spaces\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("s-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "s-1", "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NoRowsIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+spaces`).
		WithArgs("s-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "s-1", "u-2")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
