package expr

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/woojinnn/gluesql/sql"
)

type callFunc struct {
	fn         func(args []sql.Value) (sql.Value, error)
	minArgs    int16
	maxArgs    int16
	handleNull bool
}

var (
	opFuncs = map[Op]*callFunc{
		AddOp:          {fn: addCall, minArgs: 2, maxArgs: 2},
		BinaryAndOp:    {fn: binaryAndCall, minArgs: 2, maxArgs: 2},
		BinaryOrOp:     {fn: binaryOrCall, minArgs: 2, maxArgs: 2},
		ConcatOp:       {fn: concatCall, minArgs: 2, maxArgs: 2},
		DivideOp:       {fn: divideCall, minArgs: 2, maxArgs: 2},
		EqualOp:        {fn: equalCall, minArgs: 2, maxArgs: 2},
		GreaterEqualOp: {fn: greaterEqualCall, minArgs: 2, maxArgs: 2},
		GreaterThanOp:  {fn: greaterThanCall, minArgs: 2, maxArgs: 2},
		LessEqualOp:    {fn: lessEqualCall, minArgs: 2, maxArgs: 2},
		LessThanOp:     {fn: lessThanCall, minArgs: 2, maxArgs: 2},
		LShiftOp:       {fn: lShiftCall, minArgs: 2, maxArgs: 2},
		ModuloOp:       {fn: moduloCall, minArgs: 2, maxArgs: 2},
		MultiplyOp:     {fn: multiplyCall, minArgs: 2, maxArgs: 2},
		NegateOp:       {fn: negateCall, minArgs: 1, maxArgs: 1},
		NotEqualOp:     {fn: notEqualCall, minArgs: 2, maxArgs: 2},
		NotOp:          {fn: notCall, minArgs: 1, maxArgs: 1},
		RShiftOp:       {fn: rShiftCall, minArgs: 2, maxArgs: 2},
		SubtractOp:     {fn: subtractCall, minArgs: 2, maxArgs: 2},
	}

	idFuncs = map[sql.Identifier]*callFunc{
		sql.ABS:      {fn: absCall, minArgs: 1, maxArgs: 1},
		sql.COALESCE: {fn: coalesceCall, minArgs: 1, maxArgs: math.MaxInt16, handleNull: true},
		sql.CONCAT: {fn: concatCall, minArgs: 2, maxArgs: math.MaxInt16,
			handleNull: true},
		sql.LENGTH: {fn: lengthCall, minArgs: 1, maxArgs: 1},
		sql.LOWER:  {fn: lowerCall, minArgs: 1, maxArgs: 1},
		sql.UPPER:  {fn: upperCall, minArgs: 1, maxArgs: 1},
	}
)

func init() {
	for op, cf := range opFuncs {
		if op == NegateOp || op == NotOp {
			if cf.minArgs != 1 || cf.maxArgs != 1 {
				panic(fmt.Sprintf("opFuncs[%s]: minArgs != 1 || maxArgs != 1", op))
			}
		} else if cf.minArgs != 2 || cf.maxArgs != 2 {
			panic(fmt.Sprintf("opFuncs[%s]: minArgs != 2 || maxArgs != 2", op))
		}
	}

	for id, cf := range idFuncs {
		if cf.minArgs < 0 || cf.maxArgs < cf.minArgs {
			panic(fmt.Sprintf("idFuncs[%s]: minArgs < 0 || maxArgs < minArgs", id))
		}
	}
}

func numFunc(a0 sql.Value, a1 sql.Value, ifn func(i0, i1 sql.Int64Value) (sql.Value, error),
	ffn func(f0, f1 sql.Float64Value) (sql.Value, error)) (sql.Value, error) {

	switch a0 := a0.(type) {
	case sql.Float64Value:
		switch a1 := a1.(type) {
		case sql.Float64Value:
			return ffn(a0, a1)
		case sql.Int64Value:
			return ffn(a0, sql.Float64Value(a1))
		}
	case sql.Int64Value:
		switch a1 := a1.(type) {
		case sql.Float64Value:
			return ffn(sql.Float64Value(a0), a1)
		case sql.Int64Value:
			return ifn(a0, a1)
		}
	default:
		return nil, fmt.Errorf("expr: want number got %v", a0)
	}
	return nil, fmt.Errorf("expr: want number got %v", a1)
}

func intFunc(a0 sql.Value, a1 sql.Value,
	ifn func(i0, i1 sql.Int64Value) (sql.Value, error)) (sql.Value, error) {

	if a0, ok := a0.(sql.Int64Value); ok {
		if a1, ok := a1.(sql.Int64Value); ok {
			return ifn(a0, a1)
		}
		return nil, fmt.Errorf("expr: want integer got %v", a1)
	}
	return nil, fmt.Errorf("expr: want integer got %v", a0)
}

func shiftFunc(a0 sql.Value, a1 sql.Value,
	ifn func(i0 sql.Int64Value, i1 uint64) sql.Value) (sql.Value, error) {

	return intFunc(a0, a1,
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			if i1 < 0 {
				return nil, fmt.Errorf("expr: want non-negative integer got %v", i1)
			}
			return ifn(i0, uint64(i1)), nil
		})
}

func addCall(args []sql.Value) (sql.Value, error) {
	return numFunc(args[0], args[1],
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			return i0 + i1, nil
		},
		func(f0, f1 sql.Float64Value) (sql.Value, error) {
			return f0 + f1, nil
		})
}

func binaryAndCall(args []sql.Value) (sql.Value, error) {
	return intFunc(args[0], args[1],
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			return i0 & i1, nil
		})
}

func binaryOrCall(args []sql.Value) (sql.Value, error) {
	return intFunc(args[0], args[1],
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			return i0 | i1, nil
		})
}

func concatCall(args []sql.Value) (sql.Value, error) {
	var buf strings.Builder
	for _, a := range args {
		switch v := a.(type) {
		case nil:
		case sql.StringValue:
			buf.WriteString(string(v))
		case sql.BoolValue, sql.BytesValue, sql.Float64Value, sql.Int64Value:
			buf.WriteString(v.String())
		default:
			panic(fmt.Sprintf("unexpected type for sql.Value: %T: %v", a, a))
		}
	}
	return sql.StringValue(buf.String()), nil
}

func divideCall(args []sql.Value) (sql.Value, error) {
	return numFunc(args[0], args[1],
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			if i1 == 0 {
				return nil, ErrDivideByZero
			}
			return i0 / i1, nil
		},
		func(f0, f1 sql.Float64Value) (sql.Value, error) {
			if f1 == 0 {
				return nil, ErrDivideByZero
			}
			return f0 / f1, nil
		})
}

func compareCall(args []sql.Value, fn func(cmp int) bool) (sql.Value, error) {
	cmp, err := args[0].Compare(args[1])
	if err != nil {
		return nil, err
	}
	return sql.BoolValue(fn(cmp)), nil
}

func equalCall(args []sql.Value) (sql.Value, error) {
	return compareCall(args, func(cmp int) bool { return cmp == 0 })
}

func greaterEqualCall(args []sql.Value) (sql.Value, error) {
	return compareCall(args, func(cmp int) bool { return cmp >= 0 })
}

func greaterThanCall(args []sql.Value) (sql.Value, error) {
	return compareCall(args, func(cmp int) bool { return cmp > 0 })
}

func lessEqualCall(args []sql.Value) (sql.Value, error) {
	return compareCall(args, func(cmp int) bool { return cmp <= 0 })
}

func lessThanCall(args []sql.Value) (sql.Value, error) {
	return compareCall(args, func(cmp int) bool { return cmp < 0 })
}

func notEqualCall(args []sql.Value) (sql.Value, error) {
	return compareCall(args, func(cmp int) bool { return cmp != 0 })
}

func lShiftCall(args []sql.Value) (sql.Value, error) {
	return shiftFunc(args[0], args[1],
		func(i0 sql.Int64Value, i1 uint64) sql.Value {
			return i0 << i1
		})
}

func rShiftCall(args []sql.Value) (sql.Value, error) {
	return shiftFunc(args[0], args[1],
		func(i0 sql.Int64Value, i1 uint64) sql.Value {
			return i0 >> i1
		})
}

func moduloCall(args []sql.Value) (sql.Value, error) {
	return intFunc(args[0], args[1],
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			if i1 == 0 {
				return nil, ErrDivideByZero
			}
			return i0 % i1, nil
		})
}

func multiplyCall(args []sql.Value) (sql.Value, error) {
	return numFunc(args[0], args[1],
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			return i0 * i1, nil
		},
		func(f0, f1 sql.Float64Value) (sql.Value, error) {
			return f0 * f1, nil
		})
}

func subtractCall(args []sql.Value) (sql.Value, error) {
	return numFunc(args[0], args[1],
		func(i0, i1 sql.Int64Value) (sql.Value, error) {
			return i0 - i1, nil
		},
		func(f0, f1 sql.Float64Value) (sql.Value, error) {
			return f0 - f1, nil
		})
}

func negateCall(args []sql.Value) (sql.Value, error) {
	switch a0 := args[0].(type) {
	case sql.Float64Value:
		return -a0, nil
	case sql.Int64Value:
		return -a0, nil
	}
	return nil, fmt.Errorf("expr: want number got %v", args[0])
}

func notCall(args []sql.Value) (sql.Value, error) {
	if a0, ok := args[0].(sql.BoolValue); ok {
		return !a0, nil
	}
	return nil, fmt.Errorf("expr: want boolean got %v", args[0])
}

func absCall(args []sql.Value) (sql.Value, error) {
	switch a0 := args[0].(type) {
	case sql.Float64Value:
		if a0 < 0 {
			return -a0, nil
		}
		return a0, nil
	case sql.Int64Value:
		if a0 < 0 {
			return -a0, nil
		}
		return a0, nil
	}
	return nil, fmt.Errorf("expr: want number got %v", args[0])
}

func coalesceCall(args []sql.Value) (sql.Value, error) {
	for _, a := range args {
		if a != nil {
			return a, nil
		}
	}
	return nil, nil
}

func lengthCall(args []sql.Value) (sql.Value, error) {
	switch a0 := args[0].(type) {
	case sql.StringValue:
		return sql.Int64Value(utf8.RuneCountInString(string(a0))), nil
	case sql.BytesValue:
		return sql.Int64Value(len(a0)), nil
	}
	return nil, fmt.Errorf("expr: want string got %v", args[0])
}

func lowerCall(args []sql.Value) (sql.Value, error) {
	if a0, ok := args[0].(sql.StringValue); ok {
		return sql.StringValue(strings.ToLower(string(a0))), nil
	}
	return nil, fmt.Errorf("expr: want string got %v", args[0])
}

func upperCall(args []sql.Value) (sql.Value, error) {
	if a0, ok := args[0].(sql.StringValue); ok {
		return sql.StringValue(strings.ToUpper(string(a0))), nil
	}
	return nil, fmt.Errorf("expr: want string got %v", args[0])
}
