package keyval_test

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/woojinnn/gluesql/storage/keyval"
	"github.com/woojinnn/gluesql/testutil"
)

type kvPair struct {
	key string
	val string
}

func scanKV(t *testing.T, kv keyval.KV, prefix string) []kvPair {
	t.Helper()

	cr, err := kv.Scan([]byte(prefix))
	if err != nil {
		t.Fatalf("Scan(%q) failed with %s", prefix, err)
	}
	defer cr.Close()

	var all []kvPair
	for {
		err = cr.Next(func(key, val []byte) error {
			all = append(all, kvPair{string(key), string(val)})
			return nil
		})
		if err == io.EOF {
			return all
		} else if err != nil {
			t.Fatalf("Scan(%q).Next() failed with %s", prefix, err)
		}
	}
}

func TestKV(t *testing.T) {
	errFail := errors.New("fail")

	for _, name := range []string{"badger", "bbolt", "btree", "pebble"} {
		dataDir := filepath.Join("testdata", "kv-"+name)
		err := testutil.CleanDir(dataDir, nil)
		if err != nil {
			t.Fatal(err)
		}
		kv, err := keyval.MakeKV(name, dataDir, testutil.Logger(t, "testdata", "kv-"+name))
		if err != nil {
			t.Fatalf("MakeKV(%s) failed with %s", name, err)
		}

		err = kv.Write(func(b keyval.Batch) error {
			for _, p := range []kvPair{
				{"a", "1"}, {"ab", "2"}, {"ac", "3"}, {"b", "4"}, {"\x01\xff", "5"},
				{"\x01\xff\x00", "6"}, {"\x02", "7"},
			} {
				err := b.Set([]byte(p.key), []byte(p.val))
				if err != nil {
					return err
				}
			}
			return b.Get([]byte("ab"), func(val []byte) error {
				if string(val) != "2" {
					t.Errorf("%s: Batch.Get(ab) got %q want 2", name, val)
				}
				return nil
			})
		})
		if err != nil {
			t.Fatalf("%s: Write() failed with %s", name, err)
		}

		got := scanKV(t, kv, "a")
		want := []kvPair{{"", "1"}, {"b", "2"}, {"c", "3"}}
		if !testutil.DeepEqual(got, want) {
			t.Errorf("%s: Scan(a) got %v want %v", name, got, want)
		}
		got = scanKV(t, kv, "\x01\xff")
		want = []kvPair{{"", "5"}, {"\x00", "6"}}
		if !testutil.DeepEqual(got, want) {
			t.Errorf("%s: Scan(01ff) got %v want %v", name, got, want)
		}
		if got = scanKV(t, kv, "c"); len(got) != 0 {
			t.Errorf("%s: Scan(c) got %v want nothing", name, got)
		}

		cr, err := kv.Scan([]byte("a"))
		if err != nil {
			t.Fatalf("%s: Scan(a) failed with %s", name, err)
		}
		err = kv.Write(func(b keyval.Batch) error {
			err := b.Set([]byte("aa"), []byte("8"))
			if err != nil {
				return err
			}
			return errFail
		})
		if err != errFail {
			t.Errorf("%s: Write() got %v want %s", name, err, errFail)
		}
		err = kv.Get([]byte("aa"), func(val []byte) error { return nil })
		if err != io.EOF {
			t.Errorf("%s: Get(aa) after a failed write got %v want io.EOF", name, err)
		}

		err = kv.Write(func(b keyval.Batch) error {
			return b.Set([]byte("ad"), []byte("9"))
		})
		if err != nil {
			t.Fatalf("%s: Write() failed with %s", name, err)
		}
		var n int
		for cr.Next(func(key, val []byte) error { return nil }) == nil {
			n += 1
		}
		cr.Close()
		if n != 3 {
			t.Errorf("%s: open cursor got %d keys want 3", name, n)
		}

		err = kv.Get([]byte("ad"), func(val []byte) error {
			if string(val) != "9" {
				t.Errorf("%s: Get(ad) got %q want 9", name, val)
			}
			return nil
		})
		if err != nil {
			t.Errorf("%s: Get(ad) failed with %s", name, err)
		}

		err = kv.Close()
		if err != nil {
			t.Errorf("%s: Close() failed with %s", name, err)
		}
	}
}
