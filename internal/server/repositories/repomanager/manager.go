package repomanager

import (
	"context"
	"database/sql"

	"github.com/funnelforge/adminauth/internal/dbx"
	"github.com/funnelforge/adminauth/internal/server/repositories/admins"
	"github.com/funnelforge/adminauth/internal/server/repositories/refreshtokens"
	"github.com/funnelforge/adminauth/internal/server/repositories/resettokens"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same constructors inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}
