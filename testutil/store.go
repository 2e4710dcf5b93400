package testutil

import (
	"context"

	"github.com/woojinnn/gluesql/config"
	"github.com/woojinnn/gluesql/storage"
	"github.com/woojinnn/gluesql/storage/basic"
)

// MakeStore returns an in-memory store containing tables; it is intended for use by
// testing.
func MakeStore(tables ...config.Table) (storage.Store, error) {
	st := basic.NewStore()
	for _, tbl := range tables {
		err := tbl.Load(context.Background(), st)
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}
