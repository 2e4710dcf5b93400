package test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
	"github.com/woojinnn/gluesql/testutil"
)

// LoadStore is a store which can also have tables created and rows inserted.
type LoadStore interface {
	storage.Store
	storage.Loader
}

const (
	cmdCreateTable = iota
	cmdColumns
	cmdInsert
	cmdRows
)

type storeCmd struct {
	cmd  int
	fail bool           // The command should fail
	name sql.Identifier // Name of the table
	cols []sql.Identifier
	row  sql.Row   // Row to insert
	rows []sql.Row // Expected rows
}

var (
	tblA = sql.ID("tbl_a")
	tblB = sql.ID("tbl_b")
	tblC = sql.QuotedID("Tbl-C")

	colsA = []sql.Identifier{sql.ID("id"), sql.ID("name"), sql.ID("score")}
	colsB = []sql.Identifier{sql.ID("id"), sql.QuotedID("Raw")}

	storeTests = []storeCmd{
		{cmd: cmdColumns, name: tblA, fail: true},
		{cmd: cmdRows, name: tblA, fail: true},
		{cmd: cmdInsert, name: tblA, row: sql.Row{nil}, fail: true},
		{cmd: cmdCreateTable, name: tblA, cols: colsA},
		{cmd: cmdCreateTable, name: tblA, cols: colsA, fail: true},
		{cmd: cmdColumns, name: tblA, cols: colsA},
		{cmd: cmdRows, name: tblA},
		{cmd: cmdCreateTable, name: tblB, cols: colsB},
		{cmd: cmdCreateTable, name: tblC, cols: []sql.Identifier{sql.ID("x")}},
		{cmd: cmdColumns, name: tblB, cols: colsB},
		{cmd: cmdColumns, name: tblC, cols: []sql.Identifier{sql.ID("x")}},
		{cmd: cmdColumns, name: sql.ID("tbl-c"), fail: true},
		{
			cmd:  cmdInsert,
			name: tblA,
			row:  sql.Row{sql.Int64Value(3), sql.StringValue("ccc"), sql.Float64Value(3.5)},
		},
		{
			cmd:  cmdInsert,
			name: tblA,
			row:  sql.Row{sql.Int64Value(1), nil, sql.Float64Value(-1)},
		},
		{
			cmd:  cmdInsert,
			name: tblB,
			row:  sql.Row{sql.Int64Value(1), sql.BytesValue{0, 1, 255}},
		},
		{
			cmd:  cmdInsert,
			name: tblA,
			row:  sql.Row{sql.Int64Value(2), sql.StringValue("bbb"), sql.BoolValue(true)},
		},
		{cmd: cmdInsert, name: tblA, row: sql.Row{sql.Int64Value(4)}, fail: true},
		{
			cmd:  cmdRows,
			name: tblA,
			rows: []sql.Row{
				{sql.Int64Value(3), sql.StringValue("ccc"), sql.Float64Value(3.5)},
				{sql.Int64Value(1), nil, sql.Float64Value(-1)},
				{sql.Int64Value(2), sql.StringValue("bbb"), sql.BoolValue(true)},
			},
		},
		{
			cmd:  cmdRows,
			name: tblB,
			rows: []sql.Row{
				{sql.Int64Value(1), sql.BytesValue{0, 1, 255}},
			},
		},
		{cmd: cmdRows, name: tblC},
	}
)

func allRows(t *testing.T, ctx context.Context, it storage.RowIterator, step string) []sql.Row {

	t.Helper()

	var all []sql.Row
	var prev storage.Key
	for {
		key, row, err := it.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Errorf("%s: RowIterator.Next(): failed with %s", step, err)
			return nil
		}
		if prev != nil && bytes.Compare(prev, key) >= 0 {
			t.Errorf("%s: RowIterator.Next(): key %v not greater than %v", step, key, prev)
		}
		prev = key
		all = append(all, row)
	}

	_, _, err := it.Next(ctx)
	if err != io.EOF {
		t.Errorf("%s: RowIterator.Next() after EOF got %v want io.EOF", step, err)
	}

	err = it.Close()
	if err != nil {
		t.Errorf("%s: RowIterator.Close(): failed with %s", step, err)
	}
	return all
}

func runStoreCmd(t *testing.T, ctx context.Context, st LoadStore, step string, cmd storeCmd) {
	t.Helper()

	switch cmd.cmd {
	case cmdCreateTable:
		err := st.CreateTable(ctx, cmd.name, cmd.cols)
		if cmd.fail {
			if err == nil {
				t.Errorf("%s: CreateTable(%s) did not fail", step, cmd.name)
			} else if !errors.Is(err, storage.ErrTableExists) {
				t.Errorf("%s: CreateTable(%s) got %s want %s", step, cmd.name, err,
					storage.ErrTableExists)
			}
		} else if err != nil {
			t.Errorf("%s: CreateTable(%s) failed with %s", step, cmd.name, err)
		}
	case cmdColumns:
		cols, err := st.Columns(ctx, cmd.name)
		if cmd.fail {
			if err == nil {
				t.Errorf("%s: Columns(%s) did not fail", step, cmd.name)
			} else if !errors.Is(err, storage.ErrTableNotFound) {
				t.Errorf("%s: Columns(%s) got %s want %s", step, cmd.name, err,
					storage.ErrTableNotFound)
			}
		} else if err != nil {
			t.Errorf("%s: Columns(%s) failed with %s", step, cmd.name, err)
		} else if !testutil.DeepEqual(cols, cmd.cols) {
			t.Errorf("%s: Columns(%s) got %v want %v", step, cmd.name, cols, cmd.cols)
		}
	case cmdInsert:
		err := st.Insert(ctx, cmd.name, cmd.row)
		if cmd.fail {
			if err == nil {
				t.Errorf("%s: Insert(%s, %v) did not fail", step, cmd.name, cmd.row)
			}
		} else if err != nil {
			t.Errorf("%s: Insert(%s, %v) failed with %s", step, cmd.name, cmd.row, err)
		}
	case cmdRows:
		it, err := st.Rows(ctx, cmd.name)
		if cmd.fail {
			if err == nil {
				it.Close()
				t.Errorf("%s: Rows(%s) did not fail", step, cmd.name)
			} else if !errors.Is(err, storage.ErrTableNotFound) {
				t.Errorf("%s: Rows(%s) got %s want %s", step, cmd.name, err,
					storage.ErrTableNotFound)
			}
			return
		} else if err != nil {
			t.Errorf("%s: Rows(%s) failed with %s", step, cmd.name, err)
			return
		}
		all := allRows(t, ctx, it, step)
		var trc string
		if !testutil.DeepEqual(all, cmd.rows, &trc) {
			t.Errorf("%s: Rows(%s) got %v want %v\n%s", step, cmd.name, all, cmd.rows, trc)
		}
	default:
		panic("unexpected command")
	}
}

// RunStoreTest runs the shared table and row tests against an empty store.
func RunStoreTest(t *testing.T, st LoadStore) {
	t.Helper()

	ctx := context.Background()
	for i, cmd := range storeTests {
		runStoreCmd(t, ctx, st, fmt.Sprintf("storeTests[%d]", i), cmd)
	}
}

// RunSnapshotTest checks that an open iterator does not see rows inserted after it was
// opened and that a cancelled context stops iteration.
func RunSnapshotTest(t *testing.T, st LoadStore) {
	t.Helper()

	ctx := context.Background()
	tbl := sql.ID("snapshot")
	err := st.CreateTable(ctx, tbl, []sql.Identifier{sql.ID("n")})
	if err != nil {
		t.Fatalf("CreateTable(%s) failed with %s", tbl, err)
	}
	for n := 0; n < 100; n++ {
		err = st.Insert(ctx, tbl, sql.Row{sql.Int64Value(n)})
		if err != nil {
			t.Fatalf("Insert(%s, %d) failed with %s", tbl, n, err)
		}
	}

	it, err := st.Rows(ctx, tbl)
	if err != nil {
		t.Fatalf("Rows(%s) failed with %s", tbl, err)
	}
	err = st.Insert(ctx, tbl, sql.Row{sql.Int64Value(100)})
	if err != nil {
		t.Fatalf("Insert(%s, 100) failed with %s", tbl, err)
	}

	all := allRows(t, ctx, it, "snapshot")
	if len(all) != 100 {
		t.Errorf("Rows(%s) got %d rows want 100", tbl, len(all))
	}
	for n, row := range all {
		if len(row) != 1 || row[0] != sql.Int64Value(n) {
			t.Errorf("Rows(%s)[%d] got %v want %d", tbl, n, row, n)
			break
		}
	}

	cctx, cancel := context.WithCancel(ctx)
	it, err = st.Rows(cctx, tbl)
	if err != nil {
		t.Fatalf("Rows(%s) failed with %s", tbl, err)
	}
	defer it.Close()

	_, _, err = it.Next(cctx)
	if err != nil {
		t.Errorf("RowIterator.Next() failed with %s", err)
	}
	cancel()
	_, _, err = it.Next(cctx)
	if err != context.Canceled {
		t.Errorf("RowIterator.Next() after cancel got %v want %s", err, context.Canceled)
	}
}
