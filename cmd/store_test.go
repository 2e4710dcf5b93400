package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/woojinnn/gluesql/sql"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	tablesFile = filepath.Join(dir, "tables.hcl")
	defer func() {
		tablesFile = ""
		store = "basic"
	}()

	err := os.WriteFile(tablesFile, []byte(`
table "t" {
    columns = ["a", "b"]
    rows = [[1, "one"], [2, "two"]]
}
`), 0666)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, s := range []string{"basic", "bbolt", "bbolt"} {
		store = s
		dataDir = dir
		st, closeStore, err := openStore(ctx)
		if err != nil {
			t.Fatalf("openStore(%s) failed with %s", s, err)
		}

		cols, err := st.Columns(ctx, sql.ID("t"))
		if err != nil {
			t.Errorf("Columns(t) failed with %s", err)
		} else if len(cols) != 2 {
			t.Errorf("Columns(t) got %v want [a b]", cols)
		}
		err = closeStore()
		if err != nil {
			t.Errorf("closeStore(%s) failed with %s", s, err)
		}
	}

	store = "unknown"
	_, _, err = openStore(ctx)
	if err == nil {
		t.Errorf("openStore(unknown) did not fail")
	}

	store = "basic"
	tablesFile = filepath.Join(dir, "missing.hcl")
	_, _, err = openStore(ctx)
	if err == nil {
		t.Errorf("openStore(basic) with missing tables file did not fail")
	}
}
