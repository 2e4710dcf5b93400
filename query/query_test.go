package query_test

import (
	"testing"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
)

func TestQueryString(t *testing.T) {
	cases := []struct {
		q *query.Query
		s string
	}{
		{
			q: &query.Query{
				Body: &query.Values{
					Rows: [][]expr.Expr{
						{expr.Int64Literal(1), expr.StringLiteral("x")},
						{expr.Int64Literal(2), expr.Nil()},
					},
				},
			},
			s: "VALUES (1, 'x'), (2, NULL)",
		},
		{
			q: &query.Query{
				Body: &query.Select{
					Projection: []query.SelectItem{query.Wildcard{}},
					From: &query.TableWithJoins{
						Relation: query.TableFactor{Name: sql.ID("t")},
					},
					Where: expr.Gt(expr.Col("a"), expr.Int64Literal(1)),
				},
			},
			s: "SELECT * FROM t WHERE (a > 1)",
		},
		{
			q: &query.Query{
				Body: &query.Select{
					Projection: []query.SelectItem{
						query.QualifiedWildcard{Alias: sql.ID("t1")},
						query.ExprItem{Expr: expr.Col("t2.w"), Label: sql.ID("w2")},
					},
					From: &query.TableWithJoins{
						Relation: query.TableFactor{Name: sql.ID("t1")},
						Joins: []query.Join{
							{
								Relation: query.TableFactor{Name: sql.ID("t2"), Alias: sql.ID("x")},
								Op:       query.LeftOuterJoin,
								On:       expr.Eq(expr.Col("t1.id"), expr.Col("x.id")),
							},
							{
								Relation: query.TableFactor{Name: sql.ID("t3")},
								Op:       query.CrossJoin,
							},
						},
					},
				},
			},
			s: "SELECT t1.*, t2.w AS w2 FROM t1 LEFT OUTER JOIN t2 AS x ON (t1.id = x.id) " +
				"CROSS JOIN t3",
		},
		{
			q: &query.Query{
				Body: &query.Select{
					Projection: []query.SelectItem{
						query.ExprItem{Expr: expr.Col("a")},
						query.ExprItem{Expr: expr.CountAll()},
					},
					From: &query.TableWithJoins{
						Relation: query.TableFactor{Name: sql.ID("t")},
					},
					GroupBy: []expr.Expr{expr.Col("a")},
					Having:  expr.Gt(expr.CountAll(), expr.Int64Literal(1)),
					OrderBy: []query.OrderBy{{Expr: expr.Col("a"), Desc: true}},
				},
				Limit:  expr.Int64Literal(1),
				Offset: expr.Int64Literal(2),
			},
			s: "SELECT a, count(*) FROM t GROUP BY a HAVING (count(*) > 1) ORDER BY a DESC " +
				"LIMIT 1 OFFSET 2",
		},
	}

	for _, c := range cases {
		if c.q.String() != c.s {
			t.Errorf("Query.String() got %q want %q", c.q.String(), c.s)
		}
	}

	tf := query.TableFactor{Name: sql.ID("t")}
	if tf.TableAlias() != sql.ID("t") {
		t.Errorf("TableAlias() got %s want t", tf.TableAlias())
	}
	tf.Alias = sql.ID("u")
	if tf.TableAlias() != sql.ID("u") {
		t.Errorf("TableAlias() got %s want u", tf.TableAlias())
	}
}
