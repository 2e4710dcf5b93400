package query

import (
	"fmt"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/sql"
)

// SelectItem is one of ExprItem, Wildcard, or QualifiedWildcard.
type SelectItem interface {
	fmt.Stringer
	selectItem()
}

type ExprItem struct {
	Expr  expr.Expr
	Label sql.Identifier
}

func (_ ExprItem) selectItem() {}

func (ei ExprItem) String() string {
	s := ei.Expr.String()
	if ei.Label != 0 {
		s += fmt.Sprintf(" AS %s", ei.Label)
	}
	return s
}

type Wildcard struct{}

func (_ Wildcard) selectItem() {}

func (_ Wildcard) String() string {
	return "*"
}

type QualifiedWildcard struct {
	Alias sql.Identifier
}

func (_ QualifiedWildcard) selectItem() {}

func (qw QualifiedWildcard) String() string {
	return fmt.Sprintf("%s.*", qw.Alias)
}

type TableFactor struct {
	Name  sql.Identifier
	Alias sql.Identifier
}

// TableAlias returns the alias if one was given, otherwise the table name.
func (tf TableFactor) TableAlias() sql.Identifier {
	if tf.Alias != 0 {
		return tf.Alias
	}
	return tf.Name
}

func (tf TableFactor) String() string {
	if tf.Alias != 0 && tf.Alias != tf.Name {
		return fmt.Sprintf("%s AS %s", tf.Name, tf.Alias)
	}
	return tf.Name.String()
}

type JoinOperator int

const (
	InnerJoin JoinOperator = iota
	LeftOuterJoin
	CrossJoin
)

var joinOperators = map[JoinOperator]string{
	InnerJoin:     "JOIN",
	LeftOuterJoin: "LEFT OUTER JOIN",
	CrossJoin:     "CROSS JOIN",
}

func (jo JoinOperator) String() string {
	return joinOperators[jo]
}

// Join is one joined relation. A nil On matches every candidate row.
type Join struct {
	Relation TableFactor
	Op       JoinOperator
	On       expr.Expr
}

func (j Join) String() string {
	s := fmt.Sprintf("%s %s", j.Op, j.Relation)
	if j.On != nil {
		s += fmt.Sprintf(" ON %s", j.On)
	}
	return s
}

type TableWithJoins struct {
	Relation TableFactor
	Joins    []Join
}

func (twj *TableWithJoins) String() string {
	s := twj.Relation.String()
	for _, j := range twj.Joins {
		s += fmt.Sprintf(" %s", j)
	}
	return s
}

type OrderBy struct {
	Expr expr.Expr
	Desc bool
}

func (ob OrderBy) String() string {
	if ob.Desc {
		return fmt.Sprintf("%s DESC", ob.Expr)
	}
	return ob.Expr.String()
}

// Select is a SELECT body. From is nil for a SELECT without a FROM clause.
type Select struct {
	Projection []SelectItem
	From       *TableWithJoins
	Where      expr.Expr
	GroupBy    []expr.Expr
	Having     expr.Expr
	OrderBy    []OrderBy
}

func (_ *Select) body() {}

func (s *Select) String() string {
	str := "SELECT "
	for i, si := range s.Projection {
		if i > 0 {
			str += ", "
		}
		str += si.String()
	}
	if s.From != nil {
		str += fmt.Sprintf(" FROM %s", s.From)
	}
	if s.Where != nil {
		str += fmt.Sprintf(" WHERE %s", s.Where)
	}
	if len(s.GroupBy) > 0 {
		str += " GROUP BY "
		for i, e := range s.GroupBy {
			if i > 0 {
				str += ", "
			}
			str += e.String()
		}
	}
	if s.Having != nil {
		str += fmt.Sprintf(" HAVING %s", s.Having)
	}
	if len(s.OrderBy) > 0 {
		str += " ORDER BY "
		for i, ob := range s.OrderBy {
			if i > 0 {
				str += ", "
			}
			str += ob.String()
		}
	}
	return str
}
