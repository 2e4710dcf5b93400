package encode_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage/encode"
)

func testAppendKey(t *testing.T, values []sql.Value, reverse bool,
	prefix func(buf []byte) []byte) {

	var prev []byte
	for _, val := range values {
		buf := encode.AppendKey(prefix(nil), val, reverse)
		if bytes.Compare(prev, buf) >= 0 {
			t.Errorf("AppendKey(%v, %v) not greater", sql.Format(val), reverse)
		}
		prev = buf
	}
}

func TestAppendKey(t *testing.T) {
	values := []sql.Value{
		nil,
		sql.BoolValue(false),
		sql.BoolValue(true),
		sql.Int64Value(-999),
		sql.Int64Value(-9),
		sql.Int64Value(0),
		sql.Int64Value(9),
		sql.Int64Value(999),
		sql.Float64Value(math.NaN()),
		sql.Float64Value(-999.9),
		sql.Float64Value(-9.9),
		sql.Float64Value(0.0),
		sql.Float64Value(9.9),
		sql.Float64Value(999.9),
		sql.StringValue("A"),
		sql.StringValue("AA"),
		sql.StringValue("AAA"),
		sql.StringValue("AB"),
		sql.StringValue("BBB"),
		sql.StringValue("aaa"),
		sql.BytesValue([]byte{0}),
		sql.BytesValue([]byte{0, 0}),
		sql.BytesValue([]byte{0, 1}),
		sql.BytesValue([]byte{1, 1}),
		sql.BytesValue([]byte{2, 0, 0, 1}),
		sql.BytesValue([]byte{254, 255}),
		sql.BytesValue([]byte{255}),
	}

	reverseValues := []sql.Value{
		nil,
		sql.BoolValue(true),
		sql.BoolValue(false),
		sql.Int64Value(999),
		sql.Int64Value(9),
		sql.Int64Value(0),
		sql.Int64Value(-9),
		sql.Int64Value(-999),
		sql.Float64Value(999.9),
		sql.Float64Value(9.9),
		sql.Float64Value(0.0),
		sql.Float64Value(-9.9),
		sql.Float64Value(-999.9),
		sql.Float64Value(math.NaN()),
		sql.StringValue("aaa"),
		sql.StringValue("BBB"),
		sql.StringValue("AB"),
		sql.StringValue("AAA"),
		sql.StringValue("AA"),
		sql.StringValue("A"),
		sql.BytesValue([]byte{255}),
		sql.BytesValue([]byte{254, 255}),
		sql.BytesValue([]byte{2, 0, 0, 1}),
		sql.BytesValue([]byte{1, 1}),
		sql.BytesValue([]byte{0, 1}),
		sql.BytesValue([]byte{0, 0}),
		sql.BytesValue([]byte{0}),
	}

	none := func(buf []byte) []byte { return buf }
	prefix := func(buf []byte) []byte {
		return encode.AppendKey(buf, sql.StringValue("prefix"), false)
	}

	testAppendKey(t, values, false, none)
	testAppendKey(t, values, false, prefix)
	testAppendKey(t, reverseValues, true, none)
	testAppendKey(t, reverseValues, true, prefix)
}

func TestMakeKey(t *testing.T) {
	cases := []struct {
		v1, v2 []sql.Value
		equal  bool
	}{
		{[]sql.Value{nil}, []sql.Value{nil}, true},
		{[]sql.Value{nil, sql.Int64Value(1)}, []sql.Value{nil, sql.Int64Value(1)}, true},
		{[]sql.Value{sql.Int64Value(1)}, []sql.Value{nil}, false},
		{[]sql.Value{sql.StringValue("a"), sql.StringValue("b")},
			[]sql.Value{sql.StringValue("ab"), sql.StringValue("")}, false},
		{[]sql.Value{sql.BytesValue{0}, nil}, []sql.Value{sql.BytesValue{}, nil}, false},
		{[]sql.Value{}, []sql.Value{}, true},
	}

	for _, c := range cases {
		k1 := encode.MakeKey(c.v1)
		k2 := encode.MakeKey(c.v2)
		if bytes.Equal(k1, k2) != c.equal {
			t.Errorf("MakeKey(%v) == MakeKey(%v) got %v want %v", c.v1, c.v2, !c.equal, c.equal)
		}
	}
}
