package keyval

import (
	"io"
	"os"

	"github.com/cockroachdb/pebble"
	log "github.com/sirupsen/logrus"
)

type pebbleKV struct {
	db *pebble.DB
}

// pebbleCursor iterates a snapshot bounded to the prefix.
type pebbleCursor struct {
	snap   *pebble.Snapshot
	it     *pebble.Iterator
	prefix int
}

type pebbleBatch struct {
	batch *pebble.Batch
}

func openPebble(dataDir string, logger *log.Logger) (KV, error) {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return nil, err
	}

	db, err := pebble.Open(dataDir, &pebble.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	return pebbleKV{db: db}, nil
}

type pebbleReader interface {
	Get(key []byte) ([]byte, io.Closer, error)
}

func pebbleGet(r pebbleReader, key []byte, fn func(val []byte) error) error {
	val, closer, err := r.Get(key)
	if err == pebble.ErrNotFound {
		return io.EOF
	} else if err != nil {
		return err
	}
	defer closer.Close()
	return fn(val)
}

func (pkv pebbleKV) Get(key []byte, fn func(val []byte) error) error {
	return pebbleGet(pkv.db, key, fn)
}

func (pkv pebbleKV) Scan(prefix []byte) (Cursor, error) {
	snap := pkv.db.NewSnapshot()
	it := snap.NewIter(&pebble.IterOptions{
		LowerBound: append([]byte(nil), prefix...),
		UpperBound: prefixEnd(prefix),
	})
	it.First()
	return &pebbleCursor{
		snap:   snap,
		it:     it,
		prefix: len(prefix),
	}, nil
}

func (pkv pebbleKV) Write(fn func(b Batch) error) error {
	batch := pkv.db.NewIndexedBatch()
	defer batch.Close()

	err := fn(pebbleBatch{batch: batch})
	if err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

func (pkv pebbleKV) Close() error {
	return pkv.db.Close()
}

func (pb pebbleBatch) Get(key []byte, fn func(val []byte) error) error {
	return pebbleGet(pb.batch, key, fn)
}

func (pb pebbleBatch) Set(key, val []byte) error {
	return pb.batch.Set(key, val, nil)
}

func (pc *pebbleCursor) Next(fn func(key, val []byte) error) error {
	if pc.it == nil || !pc.it.Valid() {
		return io.EOF
	}
	err := fn(pc.it.Key()[pc.prefix:], pc.it.Value())
	pc.it.Next()
	return err
}

func (pc *pebbleCursor) Close() {
	if pc.it != nil {
		pc.it.Close()
		pc.snap.Close()
		pc.it = nil
	}
}
