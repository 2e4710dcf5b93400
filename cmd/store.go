package cmd

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/woojinnn/gluesql/config"
	"github.com/woojinnn/gluesql/storage"
	"github.com/woojinnn/gluesql/storage/basic"
	"github.com/woojinnn/gluesql/storage/keyval"
)

var (
	store      = "basic"
	dataDir    = "testdata"
	tablesFile = ""
)

func initStoreFlags() {
	fs := gluesqlCmd.PersistentFlags()

	fs.StringVar(&store, "store", store,
		"storage engine to use: basic, badger, bbolt, btree, or pebble")
	cfg.Var(fs, "store")

	fs.StringVar(&dataDir, "data", dataDir, "`directory` containing on disk stores")
	cfg.Var(fs, "data")

	fs.StringVar(&tablesFile, "tables", tablesFile, "`file` of tables to load at startup")
	cfg.Var(fs, "tables")
}

type loadStore interface {
	storage.Store
	storage.Loader
}

func nopClose() error {
	return nil
}

// openStore opens the configured store and loads the tables file into it. Tables which
// already exist in an on disk store are left as they are.
func openStore(ctx context.Context) (storage.Store, func() error, error) {
	var st loadStore
	closeStore := nopClose
	switch store {
	case "basic":
		st = basic.NewStore()
	case "badger", "bbolt", "btree", "pebble":
		kst, err := keyval.OpenStore(store, dataDir, log.StandardLogger())
		if err != nil {
			return nil, nil, fmt.Errorf("gluesql: %s", err)
		}
		st = kst
		closeStore = kst.Close
	default:
		return nil, nil,
			fmt.Errorf("gluesql: got %s for store; want basic, badger, bbolt, btree, or pebble",
				store)
	}

	if tablesFile != "" {
		tables, err := config.LoadTables(tablesFile)
		if err != nil {
			closeStore()
			return nil, nil, fmt.Errorf("gluesql: %s", err)
		}
		for _, tbl := range tables {
			err = tbl.Load(ctx, st)
			if errors.Is(err, storage.ErrTableExists) {
				log.WithField("table", tbl.Name).Warn("gluesql: table already exists")
			} else if err != nil {
				closeStore()
				return nil, nil, fmt.Errorf("gluesql: %s", err)
			}
		}
	}

	return st, closeStore, nil
}
