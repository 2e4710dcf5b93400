package execute

import (
	"context"
	"io"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
	"github.com/woojinnn/gluesql/storage/encode"
)

// Aggregated is a row context after aggregation. Binding is nil when the query does not
// aggregate. With GROUP BY, Context is the group's first row. Without GROUP BY, Context is
// nil so that plain columns of an aggregate query do not resolve.
type Aggregated struct {
	Binding *AggregateBinding
	Context *BlendContext
}

type aggregatedIterator interface {
	Next(ctx context.Context) (Aggregated, error)
	Close() error
}

type aggregate struct {
	store   storage.Store
	groupBy []expr.Expr
	having  expr.Expr
	aggs    []*expr.Aggregate
	outer   *FilterContext
}

func newAggregate(store storage.Store, projection []query.SelectItem, groupBy []expr.Expr,
	having expr.Expr, orderBy []query.OrderBy, outer *FilterContext) *aggregate {

	var aggs []*expr.Aggregate
	for _, si := range projection {
		if ei, ok := si.(query.ExprItem); ok {
			aggs = expr.Aggregates(ei.Expr, aggs)
		}
	}
	aggs = expr.Aggregates(having, aggs)
	for _, ob := range orderBy {
		aggs = expr.Aggregates(ob.Expr, aggs)
	}

	return &aggregate{
		store:   store,
		groupBy: groupBy,
		having:  having,
		aggs:    aggs,
		outer:   outer,
	}
}

// grouped is true when rows must be collected into groups before anything is emitted.
func (a *aggregate) grouped() bool {
	return len(a.groupBy) > 0 || len(a.aggs) > 0 || a.having != nil
}

func (a *aggregate) apply(rows contextIterator) aggregatedIterator {
	if !a.grouped() {
		return &passRows{rows: rows}
	}
	return &groupRows{a: a, rows: rows}
}

type passRows struct {
	rows contextIterator
}

func (pr *passRows) Next(ctx context.Context) (Aggregated, error) {
	bctx, err := pr.rows.Next(ctx)
	if err != nil {
		return Aggregated{}, err
	}
	return Aggregated{Context: bctx}, nil
}

func (pr *passRows) Close() error {
	return pr.rows.Close()
}

type group struct {
	keys        sql.Row
	context     *BlendContext
	aggregators []expr.Aggregator
}

type groupRows struct {
	a      *aggregate
	rows   contextIterator
	groups []*group
	done   bool
	index  int
}

func (a *aggregate) newGroup(keys sql.Row, bctx *BlendContext) (*group, error) {
	g := &group{
		keys:        keys,
		context:     bctx,
		aggregators: make([]expr.Aggregator, 0, len(a.aggs)),
	}
	for _, agg := range a.aggs {
		ag, err := expr.NewAggregator(agg)
		if err != nil {
			return nil, err
		}
		g.aggregators = append(g.aggregators, ag)
	}
	return g, nil
}

func (a *aggregate) accumulate(ctx context.Context, g *group, fctx *FilterContext) error {
	for adx, agg := range a.aggs {
		var val sql.Value
		if agg.Arg != nil {
			var err error
			val, err = expr.Eval(ctx, fctx, agg.Arg)
			if err != nil {
				return err
			}
		}
		err := g.aggregators[adx].Accumulate([]sql.Value{val})
		if err != nil {
			return err
		}
	}
	return nil
}

// group reads every row and collects them into groups in order of first appearance. Rows
// are in the same group when their GROUP BY values are equal, counting NULL as equal to
// NULL.
func (gr *groupRows) group(ctx context.Context) error {
	defer gr.rows.Close()

	a := gr.a
	byKey := map[string]*group{}
	for {
		bctx, err := gr.rows.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		fctx := NewFilterContext(a.store, bctx, a.outer, nil)
		keys := make(sql.Row, 0, len(a.groupBy))
		for _, e := range a.groupBy {
			val, err := expr.Eval(ctx, fctx, e)
			if err != nil {
				return err
			}
			keys = append(keys, val)
		}

		key := string(encode.MakeKey(keys))
		g, ok := byKey[key]
		if !ok {
			var first *BlendContext
			if len(a.groupBy) > 0 {
				first = bctx
			}
			g, err = a.newGroup(keys, first)
			if err != nil {
				return err
			}
			byKey[key] = g
			gr.groups = append(gr.groups, g)
		}

		err = a.accumulate(ctx, g, fctx)
		if err != nil {
			return err
		}
	}

	if len(gr.groups) == 0 && len(a.groupBy) == 0 {
		g, err := a.newGroup(nil, nil)
		if err != nil {
			return err
		}
		gr.groups = append(gr.groups, g)
	}
	return nil
}

func (gr *groupRows) Next(ctx context.Context) (Aggregated, error) {
	if !gr.done {
		gr.done = true
		err := gr.group(ctx)
		if err != nil {
			return Aggregated{}, err
		}
	}

	a := gr.a
	for gr.index < len(gr.groups) {
		g := gr.groups[gr.index]
		gr.index += 1

		values := make(sql.Row, 0, len(g.aggregators))
		for _, ag := range g.aggregators {
			val, err := ag.Total()
			if err != nil {
				return Aggregated{}, err
			}
			values = append(values, val)
		}
		binding := &AggregateBinding{
			groupBy: a.groupBy,
			keys:    g.keys,
			aggs:    a.aggs,
			values:  values,
		}

		ok, err := newFilter(a.store, a.having, a.outer, binding).check(ctx, g.context)
		if err != nil {
			return Aggregated{}, err
		}
		if ok {
			return Aggregated{Binding: binding, Context: g.context}, nil
		}
	}
	return Aggregated{}, io.EOF
}

func (gr *groupRows) Close() error {
	gr.index = len(gr.groups)
	if !gr.done {
		gr.done = true
		return gr.rows.Close()
	}
	return nil
}
