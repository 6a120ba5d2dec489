package repomanager

import (
	"context"
	"database/sql"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/dbx"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/repositories/deposits"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/repositories/sessions"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either a plain connection
// or a transaction, so services can compose multi-statement atomic units with
// dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Deposits(db dbx.DBTX) deposits.Repository
}
