package basic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/btree"

	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
	"github.com/woojinnn/gluesql/storage/encode"
)

type basicStore struct {
	mutex  sync.Mutex
	tree   *btree.BTree
	tables map[sql.Identifier]*table
}

type table struct {
	tid  int64
	cols []sql.Identifier
	seq  int64
}

type rowItem struct {
	tid int64
	key []byte
	row sql.Row
}

type rows struct {
	tree *btree.BTree
	tid  int64
	last btree.Item
	done bool
}

// NewStore returns an in-memory store which keeps the rows of every table in a single
// btree ordered by table and then by insertion order.
func NewStore() *basicStore {
	return &basicStore{
		tree:   btree.New(16),
		tables: map[sql.Identifier]*table{},
	}
}

func (ri rowItem) Less(item btree.Item) bool {
	ri2 := item.(rowItem)
	if ri.tid < ri2.tid {
		return true
	}
	return ri.tid == ri2.tid && bytes.Compare(ri.key, ri2.key) < 0
}

func (bst *basicStore) lookupTable(tbl sql.Identifier) (*table, error) {
	bt, ok := bst.tables[tbl]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, tbl)
	}
	return bt, nil
}

func (bst *basicStore) Columns(ctx context.Context, tbl sql.Identifier) ([]sql.Identifier,
	error) {

	bst.mutex.Lock()
	defer bst.mutex.Unlock()

	bt, err := bst.lookupTable(tbl)
	if err != nil {
		return nil, err
	}
	return bt.cols, nil
}

func (bst *basicStore) Rows(ctx context.Context, tbl sql.Identifier) (storage.RowIterator,
	error) {

	bst.mutex.Lock()
	defer bst.mutex.Unlock()

	bt, err := bst.lookupTable(tbl)
	if err != nil {
		return nil, err
	}

	// The clone is a snapshot: inserts after this point are not seen by the iterator.
	return &rows{
		tree: bst.tree.Clone(),
		tid:  bt.tid,
		last: rowItem{tid: bt.tid},
	}, nil
}

func (bst *basicStore) CreateTable(ctx context.Context, tbl sql.Identifier,
	cols []sql.Identifier) error {

	bst.mutex.Lock()
	defer bst.mutex.Unlock()

	if _, ok := bst.tables[tbl]; ok {
		return fmt.Errorf("%w: %s", storage.ErrTableExists, tbl)
	}
	bst.tables[tbl] = &table{
		tid:  int64(len(bst.tables) + 1),
		cols: append([]sql.Identifier(nil), cols...),
	}
	return nil
}

func (bst *basicStore) Insert(ctx context.Context, tbl sql.Identifier, row sql.Row) error {
	bst.mutex.Lock()
	defer bst.mutex.Unlock()

	bt, err := bst.lookupTable(tbl)
	if err != nil {
		return err
	}
	if len(row) != len(bt.cols) {
		return fmt.Errorf("basic: %s: got %d values want %d", tbl, len(row), len(bt.cols))
	}

	bt.seq += 1
	bst.tree.ReplaceOrInsert(rowItem{
		tid: bt.tid,
		key: encode.AppendKey(nil, sql.Int64Value(bt.seq), false),
		row: append(make(sql.Row, 0, len(row)), row...),
	})
	return nil
}

func (br *rows) Next(ctx context.Context) (storage.Key, sql.Row, error) {
	if br.done {
		return nil, nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var next *rowItem
	br.tree.AscendGreaterOrEqual(br.last,
		func(item btree.Item) bool {
			ri := item.(rowItem)
			if ri.tid != br.tid {
				return false
			}
			if !br.last.Less(ri) {
				return true
			}
			next = &ri
			return false
		})
	if next == nil {
		br.done = true
		return nil, nil, io.EOF
	}

	br.last = *next
	return storage.Key(next.key), append(make(sql.Row, 0, len(next.row)), next.row...), nil
}

func (br *rows) Close() error {
	br.done = true
	br.tree = nil
	return nil
}
