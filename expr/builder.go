package expr

import (
	"strings"

	"github.com/woojinnn/gluesql/sql"
)

// Col builds a column reference from "column" or "table.column".
func Col(name string) Ref {
	var r Ref
	for _, s := range strings.Split(name, ".") {
		r = append(r, sql.ID(s))
	}
	return r
}

// NewCall returns an *Aggregate when name is an aggregate function, otherwise a *Call.
func NewCall(name sql.Identifier, args ...Expr) Expr {
	if IsAggregate(name) && len(args) == 1 {
		return &Aggregate{Func: name, Arg: args[0]}
	}
	return &Call{Name: name, Args: args}
}

func CountAll() *Aggregate {
	return &Aggregate{Func: sql.COUNT}
}

func Bin(op Op, left, right Expr) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func Eq(left, right Expr) *Binary {
	return Bin(EqualOp, left, right)
}

func Gt(left, right Expr) *Binary {
	return Bin(GreaterThanOp, left, right)
}

func Lt(left, right Expr) *Binary {
	return Bin(LessThanOp, left, right)
}

func And(left, right Expr) *Binary {
	return Bin(AndOp, left, right)
}

func Or(left, right Expr) *Binary {
	return Bin(OrOp, left, right)
}

func Not(e Expr) *Unary {
	return &Unary{Op: NotOp, Expr: e}
}

func IsNullExpr(e Expr, not bool) *IsNull {
	return &IsNull{Expr: e, Not: not}
}

func BetweenExpr(e, low, high Expr) *Between {
	return &Between{Expr: e, Low: low, High: high}
}

func InListExpr(e Expr, list ...Expr) *InList {
	return &InList{Expr: e, List: list}
}
