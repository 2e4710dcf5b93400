package execute

import (
	"context"
	"fmt"
	"io"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/sql"
)

type limit struct {
	limit    int64
	hasLimit bool
	offset   int64
}

func limitValue(e expr.Expr, errInvalid error) (int64, error) {
	l, ok := e.(*expr.Literal)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errInvalid, e)
	}
	i, ok := l.Value.(sql.Int64Value)
	if !ok || i < 0 {
		return 0, fmt.Errorf("%w: %s", errInvalid, e)
	}
	return int64(i), nil
}

// newLimit checks LIMIT and OFFSET before any rows are read. Either may be nil.
func newLimit(limitExpr, offsetExpr expr.Expr) (*limit, error) {
	var l limit
	if limitExpr != nil {
		n, err := limitValue(limitExpr, ErrInvalidLimit)
		if err != nil {
			return nil, err
		}
		l.limit = n
		l.hasLimit = true
	}
	if offsetExpr != nil {
		n, err := limitValue(offsetExpr, ErrInvalidOffset)
		if err != nil {
			return nil, err
		}
		l.offset = n
	}
	return &l, nil
}

func (l *limit) apply(rows Rows) Rows {
	if !l.hasLimit && l.offset == 0 {
		return rows
	}
	return &limitRows{rows: rows, l: l}
}

type limitRows struct {
	rows    Rows
	l       *limit
	skipped int64
	count   int64
}

func (lr *limitRows) Next(ctx context.Context) (sql.Row, error) {
	for lr.skipped < lr.l.offset {
		_, err := lr.rows.Next(ctx)
		if err != nil {
			return nil, err
		}
		lr.skipped += 1
	}

	if lr.l.hasLimit && lr.count >= lr.l.limit {
		return nil, io.EOF
	}
	row, err := lr.rows.Next(ctx)
	if err != nil {
		return nil, err
	}
	lr.count += 1
	return row, nil
}

func (lr *limitRows) Close() error {
	return lr.rows.Close()
}
