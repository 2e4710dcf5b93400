package keyval

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var boltBucket = []byte("gluesql")

type boltKV struct {
	db *bbolt.DB
}

// boltCursor holds a read transaction open until Close.
type boltCursor struct {
	tx     *bbolt.Tx
	cr     *bbolt.Cursor
	prefix []byte
	key    []byte
	val    []byte
}

func openBBolt(dataDir string) (KV, error) {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return nil, err
	}

	// Writers remap the file only when it grows past the mmap; open cursors would block that.
	db, err := bbolt.Open(filepath.Join(dataDir, "gluesql.bbolt"), 0644,
		&bbolt.Options{InitialMmapSize: 1 << 26, NoFreelistSync: true})
	if err != nil {
		return nil, err
	}
	db.NoSync = true

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return boltKV{db: db}, nil
}

func boltGet(bkt *bbolt.Bucket, key []byte, fn func(val []byte) error) error {
	val := bkt.Get(key)
	if val == nil {
		return io.EOF
	}
	return fn(val)
}

func (bkv boltKV) Get(key []byte, fn func(val []byte) error) error {
	return bkv.db.View(func(tx *bbolt.Tx) error {
		return boltGet(tx.Bucket(boltBucket), key, fn)
	})
}

func (bkv boltKV) Scan(prefix []byte) (Cursor, error) {
	tx, err := bkv.db.Begin(false)
	if err != nil {
		return nil, err
	}
	bc := &boltCursor{
		tx:     tx,
		cr:     tx.Bucket(boltBucket).Cursor(),
		prefix: append([]byte(nil), prefix...),
	}
	bc.key, bc.val = bc.cr.Seek(bc.prefix)
	return bc, nil
}

// boltBatch is the bucket of a writable transaction.
type boltBatch struct {
	bkt *bbolt.Bucket
}

func (bkv boltKV) Write(fn func(b Batch) error) error {
	return bkv.db.Update(func(tx *bbolt.Tx) error {
		return fn(boltBatch{bkt: tx.Bucket(boltBucket)})
	})
}

func (bkv boltKV) Close() error {
	return bkv.db.Close()
}

func (bb boltBatch) Get(key []byte, fn func(val []byte) error) error {
	return boltGet(bb.bkt, key, fn)
}

func (bb boltBatch) Set(key, val []byte) error {
	return bb.bkt.Put(key, val)
}

func (bc *boltCursor) Next(fn func(key, val []byte) error) error {
	if bc.tx == nil || bc.key == nil || !bytes.HasPrefix(bc.key, bc.prefix) {
		return io.EOF
	}
	key, val := bc.key, bc.val
	bc.key, bc.val = bc.cr.Next()
	return fn(key[len(bc.prefix):], val)
}

func (bc *boltCursor) Close() {
	if bc.tx != nil {
		bc.tx.Rollback()
		bc.tx = nil
	}
}
