package execute

import (
	"context"
	"io"

	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

type join struct {
	store   storage.Store
	joins   []query.Join
	columns []JoinColumns
	outer   *FilterContext
}

func newJoin(store storage.Store, joins []query.Join, columns []JoinColumns,
	outer *FilterContext) *join {

	return &join{
		store:   store,
		joins:   joins,
		columns: columns,
		outer:   outer,
	}
}

// apply folds the joins over rows from left to right.
func (j *join) apply(rows contextIterator) contextIterator {
	for jdx, jn := range j.joins {
		rows = &joinRows{
			store:   j.store,
			join:    jn,
			columns: j.columns[jdx].Columns,
			on:      newFilter(j.store, jn.On, j.outer, nil),
			left:    rows,
		}
	}
	return rows
}

// joinRows is a nested loop join: the joined relation is scanned again for every left
// context so that correlated subqueries in ON see the current row.
type joinRows struct {
	store   storage.Store
	join    query.Join
	columns []sql.Identifier
	on      *filter
	left    contextIterator
	cur     *BlendContext
	right   *fetchRows
	matched bool
}

func (jr *joinRows) Next(ctx context.Context) (*BlendContext, error) {
	for {
		if jr.right == nil {
			var err error
			jr.cur, err = jr.left.Next(ctx)
			if err != nil {
				return nil, err
			}
			jr.right, err = fetch(ctx, jr.store, jr.join.Relation, jr.columns, jr.cur)
			if err != nil {
				return nil, err
			}
			jr.matched = false
		}

		bctx, err := jr.right.Next(ctx)
		if err == io.EOF {
			jr.right.Close()
			jr.right = nil
			if jr.join.Op == query.LeftOuterJoin && !jr.matched {
				return &BlendContext{
					Alias:   jr.join.Relation.TableAlias(),
					Columns: jr.columns,
					Next:    jr.cur,
				}, nil
			}
			continue
		} else if err != nil {
			return nil, err
		}

		ok, err := jr.on.check(ctx, bctx)
		if err != nil {
			return nil, err
		}
		if ok {
			jr.matched = true
			return bctx, nil
		}
	}
}

func (jr *joinRows) Close() error {
	var err error
	if jr.right != nil {
		err = jr.right.Close()
		jr.right = nil
	}
	lerr := jr.left.Close()
	if err == nil {
		err = lerr
	}
	return err
}
