package repl_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/andreyvit/diff"

	"github.com/woojinnn/gluesql/config"
	"github.com/woojinnn/gluesql/parser"
	"github.com/woojinnn/gluesql/repl"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/testutil"
)

func TestReplSQL(t *testing.T) {
	st, err := testutil.MakeStore(
		config.Table{
			Name:    "t",
			Columns: []string{"a", "b"},
			Rows: []sql.Row{
				{sql.Int64Value(1), sql.Int64Value(2)},
				{sql.Int64Value(3), sql.Int64Value(4)},
			},
		})
	if err != nil {
		t.Fatalf("MakeStore() failed with %s", err)
	}

	cases := []struct {
		sql string
		out string
	}{
		{
			sql: "select * from t",
			out: `+---+---+
| a | b |
+---+---+
| 1 | 2 |
| 3 | 4 |
+---+---+
(2 rows)
`,
		},
		{
			sql: "select b from t where a > 1; select 'x' as s;",
			out: `+---+
| b |
+---+
| 4 |
+---+
(1 rows)
+---+
| s |
+---+
| x |
+---+
(1 rows)
`,
		},
		{
			sql: "select * from missing; values (5, 6)",
			out: `storage: table not found: missing
+---------+---------+
| column1 | column2 |
+---------+---------+
|       5 |       6 |
+---------+---------+
(1 rows)
`,
		},
		{
			sql: "values (1), (1, 2)",
			out: `execute: number of values different: row 2: got 2 want 1
`,
		},
	}

	for _, c := range cases {
		var buf bytes.Buffer
		repl.ReplSQL(context.Background(), st, parser.NewParser(strings.NewReader(c.sql), "test"),
			"test", &buf)
		if buf.String() != c.out {
			t.Errorf("ReplSQL(%q) got diff:\n%s", c.sql, diff.LineDiff(c.out, buf.String()))
		}
	}
}
