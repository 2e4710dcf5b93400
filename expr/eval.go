package expr

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/woojinnn/gluesql/sql"
)

// Rows is the result of running a Query.
type Rows interface {
	Next(ctx context.Context) (sql.Row, error)
	Close() error
}

// Context supplies everything an expression can reference while being evaluated.
type Context interface {
	// Lookup returns the value of a column reference, or an error wrapping ErrColumnNotFound.
	Lookup(r Ref) (sql.Value, error)

	// Bound returns a value already computed for e, such as an aggregate result or a
	// GROUP BY key.
	Bound(e Expr) (sql.Value, bool)

	// Query runs a subquery with this context as its outer context.
	Query(ctx context.Context, q Query) (Rows, error)
}

// Eval evaluates e. ectx may be nil, in which case e must not reference columns, aggregates
// or subqueries.
func Eval(ctx context.Context, ectx Context, e Expr) (sql.Value, error) {
	if l, ok := e.(*Literal); ok {
		return l.Value, nil
	}
	if ectx != nil {
		if v, ok := ectx.Bound(e); ok {
			return v, nil
		}
	}

	switch e := e.(type) {
	case Ref:
		if ectx == nil {
			return nil, columnNotFound(e)
		}
		return ectx.Lookup(e)
	case *Unary:
		if e.Op == NoOp {
			return Eval(ctx, ectx, e.Expr)
		}
		return evalCall(ctx, ectx, opFuncs[e.Op], []Expr{e.Expr})
	case *Binary:
		switch e.Op {
		case AndOp:
			return evalAnd(ctx, ectx, e.Left, e.Right)
		case OrOp:
			return evalOr(ctx, ectx, e.Left, e.Right)
		}
		return evalCall(ctx, ectx, opFuncs[e.Op], []Expr{e.Left, e.Right})
	case *Call:
		cf, ok := idFuncs[e.Name]
		if !ok {
			return nil, fmt.Errorf("expr: function \"%s\" not found", e.Name)
		}
		if len(e.Args) < int(cf.minArgs) {
			return nil, fmt.Errorf("expr: function \"%s\": minimum %d arguments got %d", e.Name,
				cf.minArgs, len(e.Args))
		}
		if len(e.Args) > int(cf.maxArgs) {
			return nil, fmt.Errorf("expr: function \"%s\": maximum %d arguments got %d", e.Name,
				cf.maxArgs, len(e.Args))
		}
		return evalCall(ctx, ectx, cf, e.Args)
	case *Aggregate:
		return nil, &ContextError{e.Func}
	case *IsNull:
		v, err := Eval(ctx, ectx, e.Expr)
		if err != nil {
			return nil, err
		}
		return sql.BoolValue((v == nil) != e.Not), nil
	case *Between:
		return evalBetween(ctx, ectx, e)
	case *InList:
		return evalInList(ctx, ectx, e)
	case *Subquery:
		return evalSubquery(ctx, ectx, e)
	case *Case:
		return evalCase(ctx, ectx, e)
	default:
		panic(fmt.Sprintf("unexpected type for expr.Expr: %T: %v", e, e))
	}
}

func evalCall(ctx context.Context, ectx Context, cf *callFunc, exprs []Expr) (sql.Value,
	error) {

	args := make([]sql.Value, len(exprs))
	for i, a := range exprs {
		var err error
		args[i], err = Eval(ctx, ectx, a)
		if err != nil {
			return nil, err
		} else if args[i] == nil && !cf.handleNull {
			return nil, nil
		}
	}
	return cf.fn(args)
}

func evalBool(ctx context.Context, ectx Context, e Expr) (sql.Value, error) {
	v, err := Eval(ctx, ectx, e)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	if _, ok := v.(sql.BoolValue); !ok {
		return nil, fmt.Errorf("expr: want boolean got %v", v)
	}
	return v, nil
}

func evalAnd(ctx context.Context, ectx Context, left, right Expr) (sql.Value, error) {
	l, err := evalBool(ctx, ectx, left)
	if err != nil {
		return nil, err
	}
	if l == sql.BoolValue(false) {
		return l, nil
	}
	r, err := evalBool(ctx, ectx, right)
	if err != nil {
		return nil, err
	}
	if r == sql.BoolValue(false) {
		return r, nil
	}
	if l == nil || r == nil {
		return nil, nil
	}
	return sql.BoolValue(true), nil
}

func evalOr(ctx context.Context, ectx Context, left, right Expr) (sql.Value, error) {
	l, err := evalBool(ctx, ectx, left)
	if err != nil {
		return nil, err
	}
	if l == sql.BoolValue(true) {
		return l, nil
	}
	r, err := evalBool(ctx, ectx, right)
	if err != nil {
		return nil, err
	}
	if r == sql.BoolValue(true) {
		return r, nil
	}
	if l == nil || r == nil {
		return nil, nil
	}
	return sql.BoolValue(false), nil
}

func not(v sql.Value, negate bool) sql.Value {
	if v == nil || !negate {
		return v
	}
	return !v.(sql.BoolValue)
}

func evalBetween(ctx context.Context, ectx Context, b *Between) (sql.Value, error) {
	var vals [3]sql.Value
	for i, e := range []Expr{b.Expr, b.Low, b.High} {
		var err error
		vals[i], err = Eval(ctx, ectx, e)
		if err != nil {
			return nil, err
		}
	}
	if vals[0] == nil || vals[1] == nil || vals[2] == nil {
		return nil, nil
	}

	cmp, err := vals[1].Compare(vals[0])
	if err != nil {
		return nil, err
	}
	if cmp > 0 {
		return not(sql.BoolValue(false), b.Not), nil
	}
	cmp, err = vals[0].Compare(vals[2])
	if err != nil {
		return nil, err
	}
	return not(sql.BoolValue(cmp <= 0), b.Not), nil
}

// in returns true if v equals one of the values returned by next, NULL if it does not but
// one of them was NULL, and false otherwise.
func in(v sql.Value, next func() (sql.Value, bool, error)) (sql.Value, error) {
	var sawNull bool
	for {
		v2, ok, err := next()
		if err != nil {
			return nil, err
		} else if !ok {
			break
		}

		if v2 == nil {
			sawNull = true
			continue
		}
		cmp, err := v.Compare(v2)
		if err != nil {
			return nil, err
		}
		if cmp == 0 {
			return sql.BoolValue(true), nil
		}
	}

	if sawNull {
		return nil, nil
	}
	return sql.BoolValue(false), nil
}

func evalInList(ctx context.Context, ectx Context, il *InList) (sql.Value, error) {
	v, err := Eval(ctx, ectx, il.Expr)
	if err != nil || v == nil {
		return nil, err
	}

	idx := 0
	ret, err := in(v,
		func() (sql.Value, bool, error) {
			if idx == len(il.List) {
				return nil, false, nil
			}
			v2, err := Eval(ctx, ectx, il.List[idx])
			idx += 1
			return v2, true, err
		})
	if err != nil {
		return nil, err
	}
	return not(ret, il.Not), nil
}

func evalSubquery(ctx context.Context, ectx Context, s *Subquery) (sql.Value, error) {
	if ectx == nil {
		return nil, fmt.Errorf("expr: subquery not allowed here: %s", s.Query)
	}

	var v sql.Value
	if s.Op == In {
		var err error
		v, err = Eval(ctx, ectx, s.Expr)
		if err != nil || v == nil {
			return nil, err
		}
	}

	rows, err := ectx.Query(ctx, s.Query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	switch s.Op {
	case Scalar:
		row, err := rows.Next(ctx)
		if err == io.EOF {
			return nil, nil
		} else if err != nil {
			return nil, err
		}
		if len(row) != 1 {
			return nil, errors.New("expr: expected one column for scalar subquery")
		}

		_, err = rows.Next(ctx)
		if err == nil {
			return nil, errors.New("expr: expected one row for scalar subquery")
		} else if err != io.EOF {
			return nil, err
		}
		return row[0], nil
	case Exists:
		_, err := rows.Next(ctx)
		if err == io.EOF {
			return sql.BoolValue(s.Not), nil
		} else if err != nil {
			return nil, err
		}
		return sql.BoolValue(!s.Not), nil
	case In:
		ret, err := in(v,
			func() (sql.Value, bool, error) {
				row, err := rows.Next(ctx)
				if err == io.EOF {
					return nil, false, nil
				} else if err != nil {
					return nil, false, err
				}
				if len(row) != 1 {
					return nil, false,
						errors.New("expr: expected one column for IN subquery")
				}
				return row[0], true, nil
			})
		if err != nil {
			return nil, err
		}
		return not(ret, s.Not), nil
	default:
		panic(fmt.Sprintf("unexpected subquery op; got %v", s.Op))
	}
}

func evalCase(ctx context.Context, ectx Context, c *Case) (sql.Value, error) {
	var operand sql.Value
	if c.Operand != nil {
		var err error
		operand, err = Eval(ctx, ectx, c.Operand)
		if err != nil {
			return nil, err
		}
	}

	for _, w := range c.When {
		cond, err := Eval(ctx, ectx, w.Cond)
		if err != nil {
			return nil, err
		}

		var match bool
		if c.Operand != nil {
			if operand != nil && cond != nil {
				cmp, err := operand.Compare(cond)
				if err != nil {
					return nil, err
				}
				match = cmp == 0
			}
		} else if cond != nil {
			b, ok := cond.(sql.BoolValue)
			if !ok {
				return nil, fmt.Errorf("expr: want boolean got %v", cond)
			}
			match = bool(b)
		}

		if match {
			return Eval(ctx, ectx, w.Result)
		}
	}

	if c.Else != nil {
		return Eval(ctx, ectx, c.Else)
	}
	return nil, nil
}
