package execute

import (
	"context"
	"fmt"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

type blend struct {
	store      storage.Store
	projection []query.SelectItem
	outer      *FilterContext
}

func newBlend(store storage.Store, projection []query.SelectItem, outer *FilterContext) *blend {
	return &blend{
		store:      store,
		projection: projection,
		outer:      outer,
	}
}

func appendRelation(row sql.Row, bctx *BlendContext) sql.Row {
	if bctx.Row == nil {
		return append(row, make(sql.Row, len(bctx.Columns))...)
	}
	return append(row, bctx.Row...)
}

// apply projects agg into an output row.
func (b *blend) apply(ctx context.Context, agg Aggregated) (sql.Row, error) {
	var row sql.Row
	for _, si := range b.projection {
		switch si := si.(type) {
		case query.Wildcard:
			if agg.Binding != nil && agg.Context == nil {
				return nil, fmt.Errorf("%w: * not grouped", expr.ErrColumnNotFound)
			}
			for _, rel := range agg.Context.relations() {
				row = appendRelation(row, rel)
			}
		case query.QualifiedWildcard:
			if agg.Binding != nil && agg.Context == nil {
				return nil, fmt.Errorf("%w: %s.* not grouped", expr.ErrColumnNotFound,
					si.Alias)
			}
			// The base relation wins over a joined relation with the same alias.
			var found *BlendContext
			for c := agg.Context; c != nil; c = c.Next {
				if c.Alias == si.Alias {
					found = c
				}
			}
			if found != nil {
				row = appendRelation(row, found)
			} else {
				return nil, &TableAliasNotFoundError{Alias: si.Alias}
			}
		case query.ExprItem:
			val, err := expr.Eval(ctx, NewFilterContext(b.store, agg.Context, b.outer,
				agg.Binding), si.Expr)
			if err != nil {
				return nil, err
			}
			row = append(row, val)
		default:
			panic(fmt.Sprintf("unexpected type for query.SelectItem: %T: %v", si, si))
		}
	}
	return row, nil
}

type blendRows struct {
	rows aggregatedIterator
	b    *blend
}

func (br *blendRows) Next(ctx context.Context) (sql.Row, error) {
	agg, err := br.rows.Next(ctx)
	if err != nil {
		return nil, err
	}
	return br.b.apply(ctx, agg)
}

func (br *blendRows) Close() error {
	return br.rows.Close()
}

func exprLabel(ei query.ExprItem) string {
	if ei.Label != 0 {
		return ei.Label.String()
	}
	if r, ok := ei.Expr.(expr.Ref); ok && len(r) > 0 {
		return r[len(r)-1].String()
	}
	return ei.Expr.String()
}

func appendLabels(labels []string, cols []sql.Identifier) []string {
	for _, col := range cols {
		labels = append(labels, col.String())
	}
	return labels
}

// GetLabels returns the column labels of the projection using only the columns of the
// relations in the FROM clause: the base relation is alias with columns, followed by the
// joined relations in order.
func GetLabels(projection []query.SelectItem, alias sql.Identifier, columns []sql.Identifier,
	joinColumns []JoinColumns) ([]string, error) {

	var labels []string
	for _, si := range projection {
		switch si := si.(type) {
		case query.Wildcard:
			labels = appendLabels(labels, columns)
			for _, jc := range joinColumns {
				labels = appendLabels(labels, jc.Columns)
			}
		case query.QualifiedWildcard:
			// The base relation wins, then the first joined relation with the alias.
			cols, found := []sql.Identifier(nil), false
			if alias != 0 && alias == si.Alias {
				cols, found = columns, true
			} else {
				for _, jc := range joinColumns {
					if jc.Alias == si.Alias {
						cols, found = jc.Columns, true
						break
					}
				}
			}
			if !found {
				return nil, &TableAliasNotFoundError{Alias: si.Alias}
			}
			labels = appendLabels(labels, cols)
		case query.ExprItem:
			labels = append(labels, exprLabel(si))
		default:
			panic(fmt.Sprintf("unexpected type for query.SelectItem: %T: %v", si, si))
		}
	}
	return labels, nil
}
