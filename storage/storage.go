package storage

import (
	"context"
	"errors"

	"github.com/woojinnn/gluesql/sql"
)

// Key identifies a row within its table. Keys are opaque to the query pipeline.
type Key []byte

var (
	ErrTableNotFound = errors.New("storage: table not found")
	ErrTableExists   = errors.New("storage: table already exists")
)

type Store interface {
	Columns(ctx context.Context, tbl sql.Identifier) ([]sql.Identifier, error)
	Rows(ctx context.Context, tbl sql.Identifier) (RowIterator, error)
}

// RowIterator returns the rows of a table in key order; Next returns io.EOF after the last
// row.
type RowIterator interface {
	Next(ctx context.Context) (Key, sql.Row, error)
	Close() error
}

// Loader is implemented by stores which can have tables created and rows added outside
// of SQL.
type Loader interface {
	CreateTable(ctx context.Context, tbl sql.Identifier, cols []sql.Identifier) error
	Insert(ctx context.Context, tbl sql.Identifier, row sql.Row) error
}
