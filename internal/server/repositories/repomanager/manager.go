// Package repomanager binds database handles to repository implementations
// and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/28ori/Buddy4Life/internal/dbx"
	"github.com/28ori/Buddy4Life/internal/server/repositories/posts"
	"github.com/28ori/Buddy4Life/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
}
