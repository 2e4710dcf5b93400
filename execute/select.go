package execute

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

// Rows is the result of a query. Next returns io.EOF after the last row; once Next returns
// an error, every later call returns the same error.
type Rows interface {
	Next(ctx context.Context) (sql.Row, error)
	Close() error
}

type resultRows struct {
	rows Rows
	err  error
}

func (rr *resultRows) Next(ctx context.Context) (sql.Row, error) {
	if rr.err != nil {
		return nil, rr.err
	}
	row, err := rr.rows.Next(ctx)
	if err != nil {
		rr.err = err
		return nil, err
	}
	return row, nil
}

func (rr *resultRows) Close() error {
	if rr.err == nil {
		rr.err = io.EOF
	}
	return rr.rows.Close()
}

// Select runs q against store. outer is the context of the enclosing query when q is a
// subquery, and nil otherwise.
func Select(ctx context.Context, store storage.Store, q *query.Query,
	outer *FilterContext) (Rows, error) {

	_, rows, err := SelectWithLabels(ctx, store, q, outer, false)
	return rows, err
}

// SelectWithLabels is Select, also returning the column labels of the result when
// withLabels is true.
func SelectWithLabels(ctx context.Context, store storage.Store, q *query.Query,
	outer *FilterContext, withLabels bool) ([]string, Rows, error) {

	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithField("query", q.String()).Debug("execute: select")
	}

	lim, err := newLimit(q.Limit, q.Offset)
	if err != nil {
		return nil, nil, err
	}

	switch body := q.Body.(type) {
	case *query.Values:
		var labels []string
		if withLabels {
			labels = valuesLabels(body)
		}
		return labels, &resultRows{rows: lim.apply(newValuesRows(body))}, nil
	case *query.Select:
		labels, rows, err := selectRows(ctx, store, body, outer, withLabels)
		if err != nil {
			return nil, nil, err
		}
		return labels, &resultRows{rows: lim.apply(rows)}, nil
	default:
		panic(fmt.Sprintf("unexpected type for query.Body: %T: %v", body, body))
	}
}

func selectRows(ctx context.Context, store storage.Store, stmt *query.Select,
	outer *FilterContext, withLabels bool) ([]string, Rows, error) {

	var alias sql.Identifier
	var columns []sql.Identifier
	var joinColumns []JoinColumns
	var joins []query.Join
	if stmt.From != nil {
		var err error
		alias = stmt.From.Relation.TableAlias()
		columns, err = fetchColumns(ctx, store, stmt.From.Relation)
		if err != nil {
			return nil, nil, err
		}
		joins = stmt.From.Joins
		joinColumns, err = fetchJoinColumns(ctx, store, joins)
		if err != nil {
			return nil, nil, err
		}
	}

	var labels []string
	if withLabels {
		var err error
		labels, err = GetLabels(stmt.Projection, alias, columns, joinColumns)
		if err != nil {
			return nil, nil, err
		}
	}

	agg := newAggregate(store, stmt.Projection, stmt.GroupBy, stmt.Having, stmt.OrderBy,
		outer)
	log.WithFields(log.Fields{
		"joins":     len(joins),
		"aggregate": agg.grouped(),
		"sort":      len(stmt.OrderBy) > 0,
	}).Trace("execute: pipeline")

	var rows contextIterator
	if stmt.From == nil {
		rows = &emptyRows{}
	} else {
		fr, err := fetch(ctx, store, stmt.From.Relation, columns, nil)
		if err != nil {
			return nil, nil, err
		}
		rows = fr
	}

	rows = newJoin(store, joins, joinColumns, outer).apply(rows)
	rows = newFilter(store, stmt.Where, outer, nil).apply(rows)
	ait := newSort(store, stmt.OrderBy, outer).apply(agg.apply(rows))
	return labels, &blendRows{rows: ait, b: newBlend(store, stmt.Projection, outer)}, nil
}

// AllRows reads every row from rows and closes it.
func AllRows(ctx context.Context, rows Rows) ([]sql.Row, error) {
	defer rows.Close()

	var all []sql.Row
	for {
		row, err := rows.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		all = append(all, row)
	}
	return all, nil
}
