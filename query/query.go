package query

import (
	"fmt"

	"github.com/woojinnn/gluesql/expr"
)

// Body is either *Select or *Values.
type Body interface {
	fmt.Stringer
	body()
}

type Query struct {
	Body   Body
	Limit  expr.Expr
	Offset expr.Expr
}

func (q *Query) String() string {
	s := q.Body.String()
	if q.Limit != nil {
		s += fmt.Sprintf(" LIMIT %s", q.Limit)
	}
	if q.Offset != nil {
		s += fmt.Sprintf(" OFFSET %s", q.Offset)
	}
	return s
}

type Values struct {
	Rows [][]expr.Expr
}

func (_ *Values) body() {}

func (v *Values) String() string {
	s := "VALUES"
	for i, r := range v.Rows {
		if i > 0 {
			s += ", ("
		} else {
			s += " ("
		}

		for j, e := range r {
			if j > 0 {
				s += ", "
			}
			s += e.String()
		}

		s += ")"
	}
	return s
}
