package execute

import (
	"context"
	"fmt"
	"io"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
)

func valuesLabels(v *query.Values) []string {
	if len(v.Rows) == 0 {
		return nil
	}
	labels := make([]string, 0, len(v.Rows[0]))
	for cdx := range v.Rows[0] {
		labels = append(labels, fmt.Sprintf("column%d", cdx+1))
	}
	return labels
}

// valuesRows evaluates the rows of a VALUES list one at a time. The first non-NULL value in
// each column sets the type of the column; later values are converted to that type.
type valuesRows struct {
	rows  [][]expr.Expr
	types []sql.DataType
	index int
}

func newValuesRows(v *query.Values) *valuesRows {
	vr := &valuesRows{rows: v.Rows}
	if len(v.Rows) > 0 {
		vr.types = make([]sql.DataType, len(v.Rows[0]))
	}
	return vr
}

func (vr *valuesRows) Next(ctx context.Context) (sql.Row, error) {
	if vr.index >= len(vr.rows) {
		return nil, io.EOF
	}
	exprs := vr.rows[vr.index]
	vr.index += 1

	if len(exprs) != len(vr.types) {
		return nil, fmt.Errorf("%w: row %d: got %d want %d", ErrNumberOfValuesDifferent,
			vr.index, len(exprs), len(vr.types))
	}

	row := make(sql.Row, 0, len(exprs))
	for cdx, e := range exprs {
		val, err := expr.Eval(ctx, nil, e)
		if err != nil {
			return nil, err
		}
		if vr.types[cdx] == sql.UnknownType {
			vr.types[cdx] = sql.TypeOf(val)
		} else {
			val, err = sql.ConvertValue(vr.types[cdx], val)
			if err != nil {
				return nil, err
			}
		}
		row = append(row, val)
	}
	return row, nil
}

func (vr *valuesRows) Close() error {
	vr.index = len(vr.rows)
	return nil
}
