package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/wallet/internal/dbx"
	"github.com/dmitrijs2005/wallet/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/wallet/internal/server/repositories/spaces"
	"github.com/dmitrijs2005/wallet/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/wallet/internal/server/repositories/users"
)

// RepositoryManager vends per-entity repositories bound to a DBTX, so a
// service can run several repositories against one *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Spaces(db dbx.DBTX) spaces.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
