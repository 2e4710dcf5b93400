package execute

import (
	"context"
	"io"
	"sort"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

type sorter struct {
	store   storage.Store
	orderBy []query.OrderBy
	outer   *FilterContext
}

func newSort(store storage.Store, orderBy []query.OrderBy, outer *FilterContext) *sorter {
	return &sorter{
		store:   store,
		orderBy: orderBy,
		outer:   outer,
	}
}

func (s *sorter) apply(rows aggregatedIterator) aggregatedIterator {
	if len(s.orderBy) == 0 {
		return rows
	}
	return &sortRows{s: s, rows: rows}
}

type sortRow struct {
	agg  Aggregated
	keys sql.Row
}

type sortRows struct {
	s      *sorter
	rows   aggregatedIterator
	sorted []sortRow
	done   bool
	index  int
}

func (sr *sortRows) less(i, j int) bool {
	for kdx, ob := range sr.s.orderBy {
		cmp := sql.Compare(sr.sorted[i].keys[kdx], sr.sorted[j].keys[kdx])
		if cmp < 0 {
			return !ob.Desc
		} else if cmp > 0 {
			return ob.Desc
		}
	}
	return false
}

// sort reads every row, evaluating the ORDER BY expressions against the row before it is
// projected, and then sorts them; rows with equal keys keep their order.
func (sr *sortRows) sort(ctx context.Context) error {
	defer sr.rows.Close()

	for {
		agg, err := sr.rows.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		fctx := NewFilterContext(sr.s.store, agg.Context, sr.s.outer, agg.Binding)
		keys := make(sql.Row, 0, len(sr.s.orderBy))
		for _, ob := range sr.s.orderBy {
			val, err := expr.Eval(ctx, fctx, ob.Expr)
			if err != nil {
				return err
			}
			keys = append(keys, val)
		}
		sr.sorted = append(sr.sorted, sortRow{agg: agg, keys: keys})
	}

	sort.SliceStable(sr.sorted, sr.less)
	return nil
}

func (sr *sortRows) Next(ctx context.Context) (Aggregated, error) {
	if !sr.done {
		sr.done = true
		err := sr.sort(ctx)
		if err != nil {
			return Aggregated{}, err
		}
	}

	if sr.index < len(sr.sorted) {
		agg := sr.sorted[sr.index].agg
		sr.index += 1
		return agg, nil
	}
	return Aggregated{}, io.EOF
}

func (sr *sortRows) Close() error {
	sr.index = len(sr.sorted)
	if !sr.done {
		sr.done = true
		return sr.rows.Close()
	}
	return nil
}
