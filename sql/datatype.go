package sql

import (
	"fmt"
)

type DataType int

const (
	UnknownType DataType = iota
	BooleanType
	StringType
	BytesType
	FloatType
	IntegerType
)

func (dt DataType) String() string {
	switch dt {
	case UnknownType:
		return "UNKNOWN"
	case BooleanType:
		return "BOOL"
	case StringType:
		return "TEXT"
	case BytesType:
		return "BYTES"
	case FloatType:
		return "DOUBLE"
	case IntegerType:
		return "INT"
	}

	return fmt.Sprintf("DataType(%d)", int(dt))
}

// TypeOf returns the data type of v; NULL is UnknownType.
func TypeOf(v Value) DataType {
	switch v.(type) {
	case nil:
		return UnknownType
	case BoolValue:
		return BooleanType
	case StringValue:
		return StringType
	case BytesValue:
		return BytesType
	case Float64Value:
		return FloatType
	case Int64Value:
		return IntegerType
	default:
		panic(fmt.Sprintf("unexpected type for sql.Value: %T: %v", v, v))
	}
}
