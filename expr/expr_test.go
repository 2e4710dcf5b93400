package expr_test

import (
	"testing"

	. "github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/sql"
)

type testQuery string

func (tq testQuery) String() string {
	return string(tq)
}

func TestExprString(t *testing.T) {
	cases := []struct {
		e Expr
		s string
	}{
		{
			e: &Binary{
				Op:    DivideOp,
				Left:  &Unary{Op: NegateOp, Expr: Int64Literal(123)},
				Right: Int64Literal(456),
			},
			s: "((- 123) / 456)",
		},
		{
			e: &Call{
				Name: sql.ID("abc"),
				Args: []Expr{
					&Unary{Op: NegateOp, Expr: Int64Literal(123)},
					Int64Literal(456),
					&Binary{Op: AddOp,
						Left:  Ref{sql.ID("def"), sql.ID("ghi")},
						Right: Int64Literal(789),
					},
				},
			},
			s: "abc((- 123), 456, (def.ghi + 789))",
		},
		{e: CountAll(), s: "count(*)"},
		{e: NewCall(sql.SUM, Col("t.b")), s: "sum(t.b)"},
		{e: IsNullExpr(Col("a"), true), s: "(a IS NOT NULL)"},
		{
			e: &Between{Expr: Col("a"), Low: Int64Literal(1), High: Int64Literal(3), Not: true},
			s: "(a NOT BETWEEN 1 AND 3)",
		},
		{e: InListExpr(Col("a"), Int64Literal(1), Nil()), s: "(a IN (1, NULL))"},
		{
			e: &Subquery{Op: In, Expr: Col("a"), Not: true, Query: testQuery("SELECT b FROM t")},
			s: "(a NOT IN (SELECT b FROM t))",
		},
		{e: &Subquery{Op: Exists, Query: testQuery("VALUES (1)")}, s: "(EXISTS (VALUES (1)))"},
		{
			e: &Case{
				When: []When{{Cond: Gt(Col("a"), Int64Literal(1)), Result: StringLiteral("big")}},
				Else: StringLiteral("small"),
			},
			s: "CASE WHEN (a > 1) THEN 'big' ELSE 'small' END",
		},
	}

	for _, c := range cases {
		if c.e.String() != c.s {
			t.Errorf("%#v.String() got %q want %q", c.e, c.e.String(), c.s)
		}
	}
}

func TestExprEqual(t *testing.T) {
	q := testQuery("VALUES (1)")
	cases := []struct {
		e1, e2 Expr
		equal  bool
	}{
		{Int64Literal(1), Int64Literal(1), true},
		{Int64Literal(1), Float64Literal(1), false},
		{Nil(), Nil(), true},
		{Col("a"), Col("A"), true},
		{Col("t.a"), Col("a"), false},
		{CountAll(), CountAll(), true},
		{CountAll(), NewCall(sql.COUNT, Col("a")), false},
		{NewCall(sql.SUM, Col("a")), NewCall(sql.SUM, Col("a")), true},
		{NewCall(sql.SUM, Col("a")), NewCall(sql.MAX, Col("a")), false},
		{Eq(Col("a"), Int64Literal(1)), Eq(Col("a"), Int64Literal(1)), true},
		{Eq(Col("a"), Int64Literal(1)), Gt(Col("a"), Int64Literal(1)), false},
		{&Subquery{Op: Exists, Query: q}, &Subquery{Op: Exists, Query: q}, true},
		{&Subquery{Op: Exists, Query: q}, &Subquery{Op: Exists, Not: true, Query: q}, false},
		{
			&Case{When: []When{{Cond: True(), Result: Int64Literal(1)}}},
			&Case{When: []When{{Cond: True(), Result: Int64Literal(1)}}},
			true,
		},
		{
			&Case{When: []When{{Cond: True(), Result: Int64Literal(1)}}},
			&Case{When: []When{{Cond: True(), Result: Int64Literal(1)}}, Else: Nil()},
			false,
		},
	}

	for _, c := range cases {
		if c.e1.Equal(c.e2) != c.equal {
			t.Errorf("%s.Equal(%s) got %v want %v", c.e1, c.e2, !c.equal, c.equal)
		}
	}
}

func TestAggregates(t *testing.T) {
	e := And(
		Gt(NewCall(sql.SUM, Col("a")), Int64Literal(1)),
		Or(
			Lt(CountAll(), NewCall(sql.SUM, Col("a"))),
			&Subquery{Op: Scalar, Query: testQuery("SELECT count(*) FROM t")},
		))
	aggs := Aggregates(e, nil)
	if len(aggs) != 2 {
		t.Fatalf("Aggregates(%s) got %d want 2", e, len(aggs))
	}
	if !aggs[0].Equal(NewCall(sql.SUM, Col("a"))) || !aggs[1].Equal(CountAll()) {
		t.Errorf("Aggregates(%s) got %s, %s", e, aggs[0], aggs[1])
	}

	aggs = Aggregates(NewCall(sql.MAX, Col("b")), aggs)
	if len(aggs) != 3 {
		t.Errorf("Aggregates(max(b)) got %d want 3", len(aggs))
	}

	if HasAggregate(Eq(Col("a"), Int64Literal(1))) {
		t.Errorf("HasAggregate(a = 1) got true want false")
	}
	if !HasAggregate(NewCall(sql.ABS, CountAll())) {
		t.Errorf("HasAggregate(abs(count(*))) got false want true")
	}
}
