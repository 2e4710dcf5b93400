package keyval

import (
	"context"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
	"github.com/woojinnn/gluesql/storage/encode"
)

/*
Keys:
- 0x00 'T' <table name>: the column names of the table, encoded as a row of strings
- 0x00 'S' <table name>: the last row sequence number used by the table
- 0x01 <table name key> <sequence key>: a row of the table
*/

const (
	metadataPrefix = 0x00
	rowPrefix      = 0x01
)

type Store struct {
	mutex sync.Mutex
	kv    KV
}

type rows struct {
	cr Cursor
}

func NewStore(kv KV) *Store {
	return &Store{
		kv: kv,
	}
}

// OpenStore opens a store on top of the named key value store.
func OpenStore(name, dataDir string, logger *log.Logger) (*Store, error) {
	kv, err := MakeKV(name, dataDir, logger)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"kv": name, "data": dataDir}).Info("keyval: store opened")
	return NewStore(kv), nil
}

func tableKey(tbl sql.Identifier) []byte {
	return append([]byte{metadataPrefix, 'T'}, tbl.String()...)
}

func sequenceKey(tbl sql.Identifier) []byte {
	return append([]byte{metadataPrefix, 'S'}, tbl.String()...)
}

func rowsPrefix(tbl sql.Identifier) []byte {
	return encode.AppendKey([]byte{rowPrefix}, sql.StringValue(tbl.String()), false)
}

func encodeColumns(cols []sql.Identifier) []byte {
	row := make(sql.Row, 0, len(cols))
	for _, col := range cols {
		row = append(row, sql.StringValue(col.String()))
	}
	return encode.EncodeRowValue(row)
}

func decodeColumns(tbl sql.Identifier, buf []byte) ([]sql.Identifier, error) {
	row, err := encode.DecodeRowValue(buf)
	if err != nil {
		return nil, fmt.Errorf("keyval: table %s: %s", tbl, err)
	}
	cols := make([]sql.Identifier, 0, len(row))
	for _, val := range row {
		s, ok := val.(sql.StringValue)
		if !ok {
			return nil, fmt.Errorf("keyval: table %s: column name: got %v", tbl, val)
		}
		cols = append(cols, sql.QuotedID(string(s)))
	}
	return cols, nil
}

func (st *Store) Columns(ctx context.Context, tbl sql.Identifier) ([]sql.Identifier, error) {
	var cols []sql.Identifier
	err := st.kv.Get(tableKey(tbl),
		func(val []byte) error {
			var err error
			cols, err = decodeColumns(tbl, val)
			return err
		})
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, tbl)
	} else if err != nil {
		return nil, err
	}
	return cols, nil
}

func (st *Store) Rows(ctx context.Context, tbl sql.Identifier) (storage.RowIterator, error) {
	_, err := st.Columns(ctx, tbl)
	if err != nil {
		return nil, err
	}

	cr, err := st.kv.Scan(rowsPrefix(tbl))
	if err != nil {
		return nil, err
	}
	return &rows{cr: cr}, nil
}

func (st *Store) CreateTable(ctx context.Context, tbl sql.Identifier,
	cols []sql.Identifier) error {

	st.mutex.Lock()
	defer st.mutex.Unlock()

	return st.kv.Write(func(b Batch) error {
		err := b.Get(tableKey(tbl), func(val []byte) error { return nil })
		if err == nil {
			return fmt.Errorf("%w: %s", storage.ErrTableExists, tbl)
		} else if err != io.EOF {
			return err
		}
		return b.Set(tableKey(tbl), encodeColumns(cols))
	})
}

func nextSequence(b Batch, tbl sql.Identifier) (uint64, error) {
	var seq uint64
	err := b.Get(sequenceKey(tbl),
		func(val []byte) error {
			var ok bool
			_, seq, ok = encode.DecodeVarint(val)
			if !ok {
				return fmt.Errorf("keyval: %s: corrupt sequence", tbl)
			}
			return nil
		})
	if err != nil && err != io.EOF {
		return 0, err
	}
	seq += 1
	return seq, b.Set(sequenceKey(tbl), encode.EncodeVarint(nil, seq))
}

func (st *Store) Insert(ctx context.Context, tbl sql.Identifier, row sql.Row) error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	return st.kv.Write(func(b Batch) error {
		var cols []sql.Identifier
		err := b.Get(tableKey(tbl),
			func(val []byte) error {
				var err error
				cols, err = decodeColumns(tbl, val)
				return err
			})
		if err == io.EOF {
			return fmt.Errorf("%w: %s", storage.ErrTableNotFound, tbl)
		} else if err != nil {
			return err
		}
		if len(row) != len(cols) {
			return fmt.Errorf("keyval: %s: got %d values want %d", tbl, len(row), len(cols))
		}

		seq, err := nextSequence(b, tbl)
		if err != nil {
			return err
		}
		return b.Set(encode.AppendKey(rowsPrefix(tbl), sql.Int64Value(seq), false),
			encode.EncodeRowValue(row))
	})
}

func (st *Store) Close() error {
	return st.kv.Close()
}

func (r *rows) Next(ctx context.Context) (storage.Key, sql.Row, error) {
	if r.cr == nil {
		return nil, nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var key storage.Key
	var row sql.Row
	err := r.cr.Next(
		func(k, val []byte) error {
			var err error
			row, err = encode.DecodeRowValue(val)
			if err != nil {
				return err
			}
			key = append(storage.Key(nil), k...)
			return nil
		})
	if err == io.EOF {
		r.Close()
	}
	if err != nil {
		return nil, nil, err
	}
	return key, row, nil
}

func (r *rows) Close() error {
	if r.cr != nil {
		r.cr.Close()
		r.cr = nil
	}
	return nil
}
