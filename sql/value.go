package sql

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	NullString  = "NULL"
	TrueString  = "true"
	FalseString = "false"
)

// Value is a scalar SQL value; a nil Value is NULL.
type Value interface {
	fmt.Stringer

	// return -1 if v1 < v2
	// return 0 if v1 == v2
	// return 1 if v1 > v2
	Compare(v2 Value) (int, error)
}

// Row is one fixed length tuple of values.
type Row []Value

type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return TrueString
	}
	return FalseString
}

func (b1 BoolValue) Compare(v2 Value) (int, error) {
	if b2, ok := v2.(BoolValue); ok {
		if b1 {
			if b2 {
				return 0, nil
			}
			return 1, nil
		} else {
			if b2 {
				return -1, nil
			}
			return 0, nil
		}
	}
	return 0, fmt.Errorf("sql: want boolean got %v", Format(v2))
}

type Int64Value int64

func (i Int64Value) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (i1 Int64Value) Compare(v2 Value) (int, error) {
	switch v2 := v2.(type) {
	case Int64Value:
		if i1 < v2 {
			return -1, nil
		} else if i1 > v2 {
			return 1, nil
		}
		return 0, nil
	case Float64Value:
		if Float64Value(i1) < v2 {
			return -1, nil
		} else if Float64Value(i1) > v2 {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("sql: want number got %v", Format(v2))
}

type Float64Value float64

func (d Float64Value) String() string {
	return strconv.FormatFloat(float64(d), 'g', -1, 64)
}

func (d1 Float64Value) Compare(v2 Value) (int, error) {
	switch v2 := v2.(type) {
	case Int64Value:
		if d1 < Float64Value(v2) {
			return -1, nil
		} else if d1 > Float64Value(v2) {
			return 1, nil
		}
		return 0, nil
	case Float64Value:
		if d1 < v2 {
			return -1, nil
		} else if d1 > v2 {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("sql: want number got %v", Format(v2))
}

type StringValue string

func (s StringValue) String() string {
	return fmt.Sprintf("'%s'", string(s))
}

func (s1 StringValue) Compare(v2 Value) (int, error) {
	if s2, ok := v2.(StringValue); ok {
		return strings.Compare(string(s1), string(s2)), nil
	}
	return 0, fmt.Errorf("sql: want string got %v", Format(v2))
}

type BytesValue []byte

var (
	hexDigits = [16]rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd',
		'e', 'f'}
)

func (b BytesValue) String() string {
	var buf bytes.Buffer
	buf.WriteString("'\\x")
	for _, v := range b {
		buf.WriteRune(hexDigits[v>>4])
		buf.WriteRune(hexDigits[v&0xF])
	}

	buf.WriteRune('\'')
	return buf.String()
}

func (b1 BytesValue) Compare(v2 Value) (int, error) {
	if b2, ok := v2.(BytesValue); ok {
		return bytes.Compare([]byte(b1), []byte(b2)), nil
	}
	return 0, fmt.Errorf("sql: want bytes got %v", Format(v2))
}

func typeRank(v Value) int {
	switch v.(type) {
	case nil:
		return 0
	case BoolValue:
		return 1
	case Float64Value, Int64Value:
		return 2
	case StringValue:
		return 3
	case BytesValue:
		return 4
	default:
		panic(fmt.Sprintf("unexpected type for sql.Value: %T: %v", v, v))
	}
}

// Compare is a total order over values: NULL sorts first, then booleans, numbers, strings,
// and bytes.
func Compare(v1, v2 Value) int {
	r1 := typeRank(v1)
	r2 := typeRank(v2)
	if r1 < r2 {
		return -1
	} else if r1 > r2 {
		return 1
	} else if r1 == 0 {
		return 0
	}

	cmp, err := v1.Compare(v2)
	if err != nil {
		panic(fmt.Sprintf("sql: compare %v and %v: %s", v1, v2, err))
	}
	return cmp
}

func Format(v Value) string {
	if v == nil {
		return NullString
	}

	return v.String()
}

// ConvertValue coerces v to the data type dt. NULL converts to NULL for every type.
func ConvertValue(dt DataType, v Value) (Value, error) {
	if v == nil {
		return nil, nil
	}

	switch dt {
	case UnknownType:
		return v, nil
	case BooleanType:
		if sv, ok := v.(StringValue); ok {
			s := strings.Trim(string(sv), " \t\n")
			if s == "t" || s == "true" || s == "y" || s == "yes" || s == "on" || s == "1" {
				return BoolValue(true), nil
			} else if s == "f" || s == "false" || s == "n" || s == "no" || s == "off" || s == "0" {
				return BoolValue(false), nil
			} else {
				return nil, fmt.Errorf("sql: expected a boolean value: %v", v)
			}
		} else if i, ok := v.(Int64Value); ok {
			return BoolValue(i != 0), nil
		} else if _, ok := v.(BoolValue); !ok {
			return nil, fmt.Errorf("sql: expected a boolean value: %v", v)
		}
	case StringType:
		if i, ok := v.(Int64Value); ok {
			return StringValue(strconv.FormatInt(int64(i), 10)), nil
		} else if f, ok := v.(Float64Value); ok {
			return StringValue(strconv.FormatFloat(float64(f), 'g', -1, 64)), nil
		} else if b, ok := v.(BoolValue); ok {
			return StringValue(b.String()), nil
		} else if b, ok := v.(BytesValue); ok {
			if !utf8.Valid([]byte(b)) {
				return nil, fmt.Errorf("sql: expected a valid utf8 string: %v", v)
			}
			return StringValue(b), nil
		} else if _, ok := v.(StringValue); !ok {
			return nil, fmt.Errorf("sql: expected a string value: %v", v)
		}
	case BytesType:
		if s, ok := v.(StringValue); ok {
			return BytesValue(s), nil
		} else if _, ok := v.(BytesValue); !ok {
			return nil, fmt.Errorf("sql: expected a bytes value: %v", v)
		}
	case FloatType:
		if i, ok := v.(Int64Value); ok {
			return Float64Value(i), nil
		} else if s, ok := v.(StringValue); ok {
			d, err := strconv.ParseFloat(strings.Trim(string(s), " \t\n"), 64)
			if err != nil {
				return nil, fmt.Errorf("sql: expected a float: %v: %s", v, err)
			}
			return Float64Value(d), nil
		} else if _, ok := v.(Float64Value); !ok {
			return nil, fmt.Errorf("sql: expected a float value: %v", v)
		}
	case IntegerType:
		if f, ok := v.(Float64Value); ok {
			if f != Float64Value(math.Trunc(float64(f))) || f < math.MinInt64 ||
				f >= math.MaxInt64 {

				return nil, fmt.Errorf("sql: expected an integer value: %v", v)
			}
			return Int64Value(f), nil
		} else if s, ok := v.(StringValue); ok {
			i, err := strconv.ParseInt(strings.Trim(string(s), " \t\n"), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("sql: expected an integer: %v: %s", v, err)
			}
			return Int64Value(i), nil
		} else if _, ok := v.(Int64Value); !ok {
			return nil, fmt.Errorf("sql: expected an integer value: %v", v)
		}
	default:
		panic(fmt.Sprintf("expected a valid data type; got %v", dt))
	}

	return v, nil
}
