package parser

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/woojinnn/gluesql/parser/token"
)

func TestScan(t *testing.T) {
	s := `select foobar * 123 (,) 'string' "identifier" 456.789`
	tokens := []rune{token.Reserved, token.Identifier, token.Star, token.Integer, token.LParen,
		token.Comma, token.RParen, token.String, token.Identifier, token.Float, token.EOF}
	p := NewParser(strings.NewReader(s), "scan").(*parser)
	for _, e := range tokens {
		r := p.scan()
		if e != r {
			t.Errorf("scan(%q) got %s want %s", s, token.Format(r), token.Format(e))
		}
	}

	lookBack := len(p.history)
	p = NewParser(strings.NewReader(s), "scan").(*parser)
	for i := 0; i < len(tokens); i++ {
		if i >= lookBack {
			for j := 0; j < lookBack; j++ {
				p.unscan()
			}
			for j := lookBack; j > 0; j-- {
				r := p.scan()
				if tokens[i-j] != r {
					t.Errorf("scan(%q) got %s want %s", s, token.Format(r),
						token.Format(tokens[i-j]))
				}
			}
		}

		r := p.scan()
		if tokens[i] != r {
			t.Errorf("scan(%q) got %s want %s", s, token.Format(r), token.Format(tokens[i]))
		}
	}
}

func TestParse(t *testing.T) {
	failed := []string{
		"create table t (c int)",
		"select",
		"select * from",
		"select a from t where",
		"select * from t left t2",
		"select * from t join",
		"select a not like b",
		"select a is 1",
		"select * from t group a",
		"select * from t order a",
		"select * from t limit",
		"select 1 2",
		"select count(* from t",
		"select case end",
		"select case when a then b",
		"select exists (1)",
		"select a in 1",
		"select a between 1",
		"select (a",
		"select a as",
		"values",
		"values (1,",
		"values (1) (2)",
		"select 'abc",
	}

	for i, f := range failed {
		p := NewParser(strings.NewReader(f), fmt.Sprintf("failed[%d]", i))
		q, err := p.Parse()
		if q != nil || err == nil {
			t.Errorf("Parse(%q) did not fail", f)
		}
	}
}

func TestParseQuery(t *testing.T) {
	cases := []struct {
		sql string
		s   string
	}{
		{"select * from t", "SELECT * FROM t"},
		{"SELECT * FROM T;", "SELECT * FROM t"},
		{"select a, b as c, d e from t1 as x", "SELECT a, b AS c, d AS e FROM t1 AS x"},
		{"select x.*, y.b from t x, u y", "SELECT x.*, y.b FROM t AS x CROSS JOIN u AS y"},
		{"select * from t where a > 1", "SELECT * FROM t WHERE (a > 1)"},
		{"select a + b * c from t", "SELECT (a + (b * c)) FROM t"},
		{"select (a + b) * c from t", "SELECT ((a + b) * c) FROM t"},
		{"select a - b - c", "SELECT ((a - b) - c)"},
		{"select 1 - -2", "SELECT (1 - -2)"},
		{"select 1-2", "SELECT (1 - 2)"},
		{"select -a", "SELECT (- a)"},
		{"select not a and b", "SELECT ((NOT a) AND b)"},
		{"select a or b and c", "SELECT (a OR (b AND c))"},
		{"select a || b", "SELECT (a || b)"},
		{"select a <> b, a != b, a == b", "SELECT (a <> b), (a <> b), (a = b)"},
		{"select a <= b >> 1", "SELECT (a <= (b >> 1))"},
		{"select a is null, a is not null", "SELECT (a IS NULL), (a IS NOT NULL)"},
		{"select a between 1 and 2 and b", "SELECT ((a BETWEEN 1 AND 2) AND b)"},
		{"select a not between 1 and 2", "SELECT (a NOT BETWEEN 1 AND 2)"},
		{"select a in (1, 2)", "SELECT (a IN (1, 2))"},
		{"select not a in (1)", "SELECT (NOT (a IN (1)))"},
		{"select a not in (select b from t)", "SELECT (a NOT IN (SELECT b FROM t))"},
		{"select exists (select * from t)", "SELECT (EXISTS (SELECT * FROM t))"},
		{"select not exists (values (1))", "SELECT (NOT (EXISTS (VALUES (1))))"},
		{"select (select max(b) from t)", "SELECT (SELECT max(b) FROM t)"},
		{"select count(*), count(a), sum(a) from t",
			"SELECT count(*), count(a), sum(a) FROM t"},
		{"select upper('x'), abs(-1)", "SELECT upper('x'), abs(-1)"},
		{"select true, false, null", "SELECT true, false, NULL"},
		{"select case a when 1 then 'one' else 'other' end",
			"SELECT CASE a WHEN 1 THEN 'one' ELSE 'other' END"},
		{"select case when a > 1 then b when a < 0 then c end from t",
			"SELECT CASE WHEN (a > 1) THEN b WHEN (a < 0) THEN c END FROM t"},
		{"select * from t1 left join t2 on t1.a = t2.a",
			"SELECT * FROM t1 LEFT OUTER JOIN t2 ON (t1.a = t2.a)"},
		{"select * from t1 left outer join t2",
			"SELECT * FROM t1 LEFT OUTER JOIN t2"},
		{"select * from t1, t2 cross join t3 join t4 on true inner join t5 on false",
			"SELECT * FROM t1 CROSS JOIN t2 CROSS JOIN t3 JOIN t4 ON true JOIN t5 ON false"},
		{"select a, count(*) from t group by a, b having count(*) > 1 " +
			"order by a desc, b asc, c limit 1 offset 2",
			"SELECT a, count(*) FROM t GROUP BY a, b HAVING (count(*) > 1) " +
				"ORDER BY a DESC, b, c LIMIT 1 OFFSET 2"},
		{"values (1, 'x'), (2, null)", "VALUES (1, 'x'), (2, NULL)"},
		{"values (1) limit 1", "VALUES (1) LIMIT 1"},
	}

	for i, c := range cases {
		p := NewParser(strings.NewReader(c.sql), fmt.Sprintf("cases[%d]", i))
		q, err := p.Parse()
		if err != nil {
			t.Errorf("Parse(%q) failed with %s", c.sql, err)
			continue
		}
		if q.String() != c.s {
			t.Errorf("Parse(%q) got %s want %s", c.sql, q.String(), c.s)
		}
		q, err = p.Parse()
		if err != io.EOF {
			t.Errorf("Parse(%q) got %v and %v want io.EOF", c.sql, q, err)
		}
	}
}

func TestParseMultiple(t *testing.T) {
	p := NewParser(strings.NewReader("select 1; values (2);;\n select 3"), "multiple")
	for _, s := range []string{"SELECT 1", "VALUES (2)", "SELECT 3"} {
		q, err := p.Parse()
		if err != nil {
			t.Fatalf("Parse() failed with %s", err)
		}
		if q.String() != s {
			t.Errorf("Parse() got %s want %s", q.String(), s)
		}
	}
	_, err := p.Parse()
	if err != io.EOF {
		t.Errorf("Parse() got %v want io.EOF", err)
	}
}

func TestParseRecover(t *testing.T) {
	p := NewParser(strings.NewReader("select * fro t; select 1; select ;values (2)"),
		"recover")
	for _, s := range []string{"", "SELECT 1", "", "VALUES (2)"} {
		q, err := p.Parse()
		if s == "" {
			if err == nil {
				t.Errorf("Parse() did not fail; got %s", q)
			}
		} else if err != nil {
			t.Errorf("Parse() failed with %s", err)
		} else if q.String() != s {
			t.Errorf("Parse() got %s want %s", q.String(), s)
		}
	}
	_, err := p.Parse()
	if err != io.EOF {
		t.Errorf("Parse() got %v want io.EOF", err)
	}
}

func TestParseExpr(t *testing.T) {
	cases := []struct {
		sql  string
		s    string
		fail bool
	}{
		{sql: "1 + 2 * 3", s: "(1 + (2 * 3))"},
		{sql: "a.b.c", s: "a.b.c"},
		{sql: "c1 * 10 % 3", s: "((c1 * 10) % 3)"},
		{sql: "a = 1 or b = 2 and c = 3", s: "((a = 1) OR ((b = 2) AND (c = 3)))"},
		{sql: "1 +", fail: true},
		{sql: "1 2", fail: true},
		{sql: "a.", fail: true},
	}

	for i, c := range cases {
		p := NewParser(strings.NewReader(c.sql), fmt.Sprintf("cases[%d]", i))
		e, err := p.ParseExpr()
		if c.fail {
			if err == nil {
				t.Errorf("ParseExpr(%q) did not fail", c.sql)
			}
		} else if err != nil {
			t.Errorf("ParseExpr(%q) failed with %s", c.sql, err)
		} else if e.String() != c.s {
			t.Errorf("ParseExpr(%q) got %s want %s", c.sql, e.String(), c.s)
		}
	}
}
