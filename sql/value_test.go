package sql_test

import (
	"testing"

	"github.com/woojinnn/gluesql/sql"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		v1, v2 sql.Value
		cmp    int
	}{
		{nil, sql.BoolValue(true), -1},
		{nil, nil, 0},

		{sql.BoolValue(false), nil, 1},
		{sql.BoolValue(true), sql.BoolValue(true), 0},
		{sql.BoolValue(false), sql.BoolValue(false), 0},
		{sql.BoolValue(false), sql.BoolValue(true), -1},
		{sql.BoolValue(true), sql.BoolValue(false), 1},
		{sql.BoolValue(false), sql.Float64Value(1.23), -1},

		{sql.Float64Value(1.23), sql.BoolValue(false), 1},
		{sql.Float64Value(1.23), sql.Int64Value(123), -1},
		{sql.Float64Value(1.23), sql.StringValue("abc"), -1},
		{sql.Float64Value(1.23), sql.Float64Value(2.34), -1},
		{sql.Float64Value(1.23), sql.Float64Value(1.23), 0},
		{sql.Float64Value(1.23), sql.Float64Value(0.12), 1},

		{sql.Int64Value(123), sql.BoolValue(false), 1},
		{sql.Int64Value(123), sql.Float64Value(1.23), 1},
		{sql.Int64Value(123), sql.StringValue("abc"), -1},
		{sql.Int64Value(123), sql.Int64Value(234), -1},
		{sql.Int64Value(123), sql.Int64Value(123), 0},
		{sql.Int64Value(123), sql.Int64Value(12), 1},
		{sql.Int64Value(2), sql.Float64Value(2), 0},

		{sql.StringValue("abc"), sql.BoolValue(false), 1},
		{sql.StringValue("abc"), sql.Float64Value(1.23), 1},
		{sql.StringValue("abc"), sql.Int64Value(123), 1},
		{sql.StringValue("def"), sql.StringValue("ghi"), -1},
		{sql.StringValue("def"), sql.StringValue("def"), 0},
		{sql.StringValue("def"), sql.StringValue("abc"), 1},
		{sql.StringValue("def"), sql.BytesValue{1, 2}, -1},

		{sql.BytesValue{1, 2}, sql.BytesValue{1, 3}, -1},
		{sql.BytesValue{1, 2}, sql.BytesValue{1, 2}, 0},
		{sql.BytesValue{1, 2}, nil, 1},
	}

	for _, c := range cases {
		cmp := sql.Compare(c.v1, c.v2)
		if cmp != c.cmp {
			t.Errorf("Compare(%v, %v) got %d want %d", c.v1, c.v2, cmp, c.cmp)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v sql.Value
		s string
	}{
		{nil, "NULL"},
		{sql.BoolValue(true), "true"},
		{sql.BoolValue(false), "false"},
		{sql.Int64Value(-12), "-12"},
		{sql.Float64Value(1.5), "1.5"},
		{sql.StringValue("abc"), "'abc'"},
		{sql.BytesValue{0x1, 0xab}, `'\x01ab'`},
	}

	for _, c := range cases {
		s := sql.Format(c.v)
		if s != c.s {
			t.Errorf("Format(%v) got %s want %s", c.v, s, c.s)
		}
	}
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		v  sql.Value
		dt sql.DataType
	}{
		{nil, sql.UnknownType},
		{sql.BoolValue(true), sql.BooleanType},
		{sql.Int64Value(1), sql.IntegerType},
		{sql.Float64Value(1), sql.FloatType},
		{sql.StringValue("a"), sql.StringType},
		{sql.BytesValue{}, sql.BytesType},
	}

	for _, c := range cases {
		dt := sql.TypeOf(c.v)
		if dt != c.dt {
			t.Errorf("TypeOf(%v) got %s want %s", c.v, dt, c.dt)
		}
	}
}

func TestConvertValue(t *testing.T) {
	cases := []struct {
		dt   sql.DataType
		v    sql.Value
		r    sql.Value
		fail bool
	}{
		{dt: sql.IntegerType, v: nil, r: nil},
		{dt: sql.IntegerType, v: sql.Int64Value(7), r: sql.Int64Value(7)},
		{dt: sql.IntegerType, v: sql.Float64Value(7.0), r: sql.Int64Value(7)},
		{dt: sql.IntegerType, v: sql.Float64Value(7.9), fail: true},
		{dt: sql.IntegerType, v: sql.Float64Value(1e30), fail: true},
		{dt: sql.IntegerType, v: sql.StringValue(" 42 "), r: sql.Int64Value(42)},
		{dt: sql.IntegerType, v: sql.StringValue("abc"), fail: true},
		{dt: sql.IntegerType, v: sql.BoolValue(true), fail: true},
		{dt: sql.FloatType, v: sql.Int64Value(3), r: sql.Float64Value(3)},
		{dt: sql.FloatType, v: sql.StringValue("2.5"), r: sql.Float64Value(2.5)},
		{dt: sql.FloatType, v: sql.BytesValue{}, fail: true},
		{dt: sql.StringType, v: sql.Int64Value(3), r: sql.StringValue("3")},
		{dt: sql.StringType, v: sql.BoolValue(false), r: sql.StringValue("false")},
		{dt: sql.StringType, v: sql.BytesValue{0xff, 0xfe}, fail: true},
		{dt: sql.BooleanType, v: sql.StringValue("yes"), r: sql.BoolValue(true)},
		{dt: sql.BooleanType, v: sql.StringValue("off"), r: sql.BoolValue(false)},
		{dt: sql.BooleanType, v: sql.Int64Value(0), r: sql.BoolValue(false)},
		{dt: sql.BooleanType, v: sql.Float64Value(1), fail: true},
		{dt: sql.BytesType, v: sql.StringValue("ab"), r: sql.BytesValue("ab")},
		{dt: sql.UnknownType, v: sql.StringValue("ab"), r: sql.StringValue("ab")},
	}

	for _, c := range cases {
		r, err := sql.ConvertValue(c.dt, c.v)
		if c.fail {
			if err == nil {
				t.Errorf("ConvertValue(%s, %v) did not fail", c.dt, c.v)
			}
			continue
		}
		if err != nil {
			t.Errorf("ConvertValue(%s, %v) failed with %s", c.dt, c.v, err)
		} else if sql.Compare(r, c.r) != 0 || sql.TypeOf(r) != sql.TypeOf(c.r) {
			t.Errorf("ConvertValue(%s, %v) got %v want %v", c.dt, c.v, r, c.r)
		}
	}
}
