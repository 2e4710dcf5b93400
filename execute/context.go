package execute

import (
	"context"
	"fmt"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

// BlendContext is one relation's row within a chain of joined rows. Next points at the
// context built before this one: the left side of the join, or nil for the base relation.
// A nil Row means the relation was null extended by a LEFT OUTER JOIN. Contexts are never
// modified once built.
type BlendContext struct {
	Alias   sql.Identifier
	Columns []sql.Identifier
	Row     sql.Row
	Key     storage.Key
	Next    *BlendContext
}

func (bc *BlendContext) value(col int) sql.Value {
	if bc.Row == nil {
		return nil
	}
	return bc.Row[col]
}

func (bc *BlendContext) column(col sql.Identifier) (int, bool) {
	for cdx, c := range bc.Columns {
		if c == col {
			return cdx, true
		}
	}
	return 0, false
}

// lookup resolves r against the chain, innermost relation first.
func (bc *BlendContext) lookup(r expr.Ref) (sql.Value, bool) {
	for c := bc; c != nil; c = c.Next {
		switch len(r) {
		case 1:
			if cdx, ok := c.column(r[0]); ok {
				return c.value(cdx), true
			}
		case 2:
			if c.Alias != r[0] {
				continue
			}
			if cdx, ok := c.column(r[1]); ok {
				return c.value(cdx), true
			}
		}
	}
	return nil, false
}

// relations returns the chain in the order the relations appear in the FROM clause.
func (bc *BlendContext) relations() []*BlendContext {
	var rels []*BlendContext
	for c := bc; c != nil; c = c.Next {
		rels = append(rels, c)
	}
	for i, j := 0, len(rels)-1; i < j; i, j = i+1, j-1 {
		rels[i], rels[j] = rels[j], rels[i]
	}
	return rels
}

// AggregateBinding holds the results computed for one group: the values of the GROUP BY
// expressions and of every aggregate call in the query.
type AggregateBinding struct {
	groupBy []expr.Expr
	keys    sql.Row
	aggs    []*expr.Aggregate
	values  sql.Row
}

func (ab *AggregateBinding) bound(e expr.Expr) (sql.Value, bool) {
	if a, ok := e.(*expr.Aggregate); ok {
		for adx, a2 := range ab.aggs {
			if a.Equal(a2) {
				return ab.values[adx], true
			}
		}
		return nil, false
	}

	for gdx, ge := range ab.groupBy {
		if e.Equal(ge) {
			return ab.keys[gdx], true
		}
	}
	return nil, false
}

// FilterContext is the expression context used while evaluating WHERE, ON, HAVING, ORDER BY
// and the projection. Column references are resolved against the aggregate binding, then
// the chain of joined rows, and then the outer context of a correlated subquery.
type FilterContext struct {
	store   storage.Store
	context *BlendContext
	outer   *FilterContext
	binding *AggregateBinding
}

func NewFilterContext(store storage.Store, bctx *BlendContext, outer *FilterContext,
	binding *AggregateBinding) *FilterContext {

	return &FilterContext{
		store:   store,
		context: bctx,
		outer:   outer,
		binding: binding,
	}
}

func (fc *FilterContext) Lookup(r expr.Ref) (sql.Value, error) {
	for c := fc; c != nil; c = c.outer {
		if c.binding != nil {
			if v, ok := c.binding.bound(r); ok {
				return v, nil
			}
		}
		if v, ok := c.context.lookup(r); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", expr.ErrColumnNotFound, r)
}

func (fc *FilterContext) Bound(e expr.Expr) (sql.Value, bool) {
	if fc.binding != nil {
		if v, ok := fc.binding.bound(e); ok {
			return v, true
		}
	}

	// Aggregates of an enclosing query may be referenced from a subquery in its HAVING or
	// projection.
	if _, ok := e.(*expr.Aggregate); ok && fc.outer != nil {
		return fc.outer.Bound(e)
	}
	return nil, false
}

func (fc *FilterContext) Query(ctx context.Context, q expr.Query) (expr.Rows, error) {
	qry, ok := q.(*query.Query)
	if !ok {
		return nil, fmt.Errorf("execute: unexpected subquery: %s", q)
	}
	rows, err := Select(ctx, fc.store, qry, fc)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
