package keyval

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// KV is the ordered key value store underneath a Store. Get returns io.EOF if the key is
// not present.
type KV interface {
	Get(key []byte, fn func(val []byte) error) error

	// Scan returns a cursor over the keys starting with prefix as of the call; writes made
	// after Scan returns are not seen by the cursor.
	Scan(prefix []byte) (Cursor, error)

	// Write calls fn with a batch. The batch is applied atomically if fn returns nil and
	// discarded otherwise. Writes must not be concurrent.
	Write(fn func(b Batch) error) error

	Close() error
}

// Batch reads see the batch's own writes.
type Batch interface {
	Get(key []byte, fn func(val []byte) error) error
	Set(key, val []byte) error
}

// Cursor.Next calls fn with the next key, with the prefix removed, and its value; it returns
// io.EOF after the last key. key and val are only valid during the call.
type Cursor interface {
	Next(fn func(key, val []byte) error) error
	Close()
}

// MakeKV opens the named key value store in dataDir.
func MakeKV(name, dataDir string, logger *log.Logger) (KV, error) {
	switch name {
	case "badger":
		return openBadger(dataDir, logger)
	case "bbolt":
		return openBBolt(dataDir)
	case "btree":
		return newBTree(), nil
	case "pebble":
		return openPebble(dataDir, logger)
	}
	return nil, fmt.Errorf("keyval: unknown key value store: %s", name)
}

// prefixEnd returns the smallest key greater than every key starting with prefix, or nil
// if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for len(end) > 0 {
		if end[len(end)-1] < 0xff {
			end[len(end)-1] += 1
			return end
		}
		end = end[:len(end)-1]
	}
	return nil
}
