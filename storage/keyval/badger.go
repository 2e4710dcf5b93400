package keyval

import (
	"io"
	"os"

	"github.com/dgraph-io/badger"
	log "github.com/sirupsen/logrus"
)

type badgerKV struct {
	db *badger.DB
}

type badgerCursor struct {
	txn    *badger.Txn
	it     *badger.Iterator
	prefix []byte
}

type badgerBatch struct {
	txn *badger.Txn
}

func openBadger(dataDir string, logger *log.Logger) (KV, error) {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return nil, err
	}

	db, err := badger.Open(badger.DefaultOptions(dataDir).
		WithLogger(logger).
		WithSyncWrites(false))
	if err != nil {
		return nil, err
	}
	return badgerKV{db: db}, nil
}

func badgerGet(txn *badger.Txn, key []byte, fn func(val []byte) error) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return io.EOF
	} else if err != nil {
		return err
	}
	return item.Value(fn)
}

func (bkv badgerKV) Get(key []byte, fn func(val []byte) error) error {
	return bkv.db.View(func(txn *badger.Txn) error {
		return badgerGet(txn, key, fn)
	})
}

func (bkv badgerKV) Scan(prefix []byte) (Cursor, error) {
	prefix = append([]byte(nil), prefix...)
	txn := bkv.db.NewTransaction(false)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	it.Seek(prefix)
	return &badgerCursor{
		txn:    txn,
		it:     it,
		prefix: prefix,
	}, nil
}

func (bkv badgerKV) Write(fn func(b Batch) error) error {
	return bkv.db.Update(func(txn *badger.Txn) error {
		return fn(badgerBatch{txn: txn})
	})
}

func (bkv badgerKV) Close() error {
	return bkv.db.Close()
}

func (bb badgerBatch) Get(key []byte, fn func(val []byte) error) error {
	return badgerGet(bb.txn, key, fn)
}

func (bb badgerBatch) Set(key, val []byte) error {
	return bb.txn.Set(key, val)
}

func (bc *badgerCursor) Next(fn func(key, val []byte) error) error {
	if bc.it == nil || !bc.it.ValidForPrefix(bc.prefix) {
		return io.EOF
	}
	item := bc.it.Item()
	defer bc.it.Next()

	return item.Value(func(val []byte) error {
		return fn(item.Key()[len(bc.prefix):], val)
	})
}

func (bc *badgerCursor) Close() {
	if bc.it != nil {
		bc.it.Close()
		bc.txn.Discard()
		bc.it = nil
	}
}
