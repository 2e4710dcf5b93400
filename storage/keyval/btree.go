package keyval

import (
	"bytes"
	"io"
	"sync"

	"github.com/google/btree"
)

// memKV keeps its rows in a copy on write btree; it does not survive Close. Writers change
// a clone which replaces the tree on success, so cursors keep the tree they started with.
type memKV struct {
	mutex sync.Mutex
	tree  *btree.BTree
}

type memEntry struct {
	key []byte
	val []byte
}

func (me memEntry) Less(item btree.Item) bool {
	return bytes.Compare(me.key, item.(memEntry).key) < 0
}

type memBatch struct {
	tree *btree.BTree
}

type memCursor struct {
	entries []memEntry
	prefix  int
}

func newBTree() KV {
	return &memKV{
		tree: btree.New(16),
	}
}

func (mkv *memKV) current() *btree.BTree {
	mkv.mutex.Lock()
	defer mkv.mutex.Unlock()
	return mkv.tree
}

func memGet(tree *btree.BTree, key []byte, fn func(val []byte) error) error {
	item := tree.Get(memEntry{key: key})
	if item == nil {
		return io.EOF
	}
	return fn(item.(memEntry).val)
}

func (mkv *memKV) Get(key []byte, fn func(val []byte) error) error {
	return memGet(mkv.current(), key, fn)
}

func (mkv *memKV) Scan(prefix []byte) (Cursor, error) {
	var entries []memEntry
	mkv.current().AscendGreaterOrEqual(memEntry{key: prefix},
		func(item btree.Item) bool {
			me := item.(memEntry)
			if !bytes.HasPrefix(me.key, prefix) {
				return false
			}
			entries = append(entries, me)
			return true
		})
	return &memCursor{
		entries: entries,
		prefix:  len(prefix),
	}, nil
}

func (mkv *memKV) Write(fn func(b Batch) error) error {
	mkv.mutex.Lock()
	tree := mkv.tree.Clone()
	mkv.mutex.Unlock()

	err := fn(memBatch{tree: tree})
	if err != nil {
		return err
	}

	mkv.mutex.Lock()
	mkv.tree = tree
	mkv.mutex.Unlock()
	return nil
}

func (mkv *memKV) Close() error {
	return nil
}

func (mb memBatch) Get(key []byte, fn func(val []byte) error) error {
	return memGet(mb.tree, key, fn)
}

func (mb memBatch) Set(key, val []byte) error {
	mb.tree.ReplaceOrInsert(memEntry{
		key: append([]byte(nil), key...),
		val: append([]byte(nil), val...),
	})
	return nil
}

func (mc *memCursor) Next(fn func(key, val []byte) error) error {
	if len(mc.entries) == 0 {
		return io.EOF
	}
	me := mc.entries[0]
	mc.entries = mc.entries[1:]
	return fn(me.key[mc.prefix:], me.val)
}

func (mc *memCursor) Close() {
	mc.entries = nil
}
