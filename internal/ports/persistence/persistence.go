package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Persistence контекстная обёртка над sqlx, реализуется pg.DB
type Persistence interface {
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Exec(ctx context.Context, query string, args ...interface{}) error
	QueryRow(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Ping(ctx context.Context) error
}
