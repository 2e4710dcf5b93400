package execute

import (
	"context"
	"fmt"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

type filter struct {
	store   storage.Store
	where   expr.Expr
	outer   *FilterContext
	binding *AggregateBinding
}

func newFilter(store storage.Store, where expr.Expr, outer *FilterContext,
	binding *AggregateBinding) *filter {

	return &filter{
		store:   store,
		where:   where,
		outer:   outer,
		binding: binding,
	}
}

// check evaluates the predicate against bctx; NULL is false.
func (f *filter) check(ctx context.Context, bctx *BlendContext) (bool, error) {
	if f.where == nil {
		return true, nil
	}

	val, err := expr.Eval(ctx, NewFilterContext(f.store, bctx, f.outer, f.binding), f.where)
	if err != nil {
		return false, err
	}
	switch val := val.(type) {
	case nil:
		return false, nil
	case sql.BoolValue:
		return bool(val), nil
	}
	return false, fmt.Errorf("execute: expected boolean result from %s got %s", f.where,
		sql.Format(val))
}

type filterRows struct {
	rows contextIterator
	f    *filter
}

func (f *filter) apply(rows contextIterator) contextIterator {
	if f.where == nil {
		return rows
	}
	return &filterRows{rows: rows, f: f}
}

func (fr *filterRows) Next(ctx context.Context) (*BlendContext, error) {
	for {
		bctx, err := fr.rows.Next(ctx)
		if err != nil {
			return nil, err
		}
		ok, err := fr.f.check(ctx, bctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return bctx, nil
		}
	}
}

func (fr *filterRows) Close() error {
	return fr.rows.Close()
}
