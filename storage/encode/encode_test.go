package encode_test

import (
	"math"
	"testing"

	"github.com/golang/protobuf/proto"

	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage/encode"
	"github.com/woojinnn/gluesql/testutil"
)

func TestEncodeVarint(t *testing.T) {
	numbers := []uint64{
		0,
		1,
		125,
		126,
		127,
		0xFF,
		0x100,
		0xFFF,
		0x1000,
		0x7F7F,
		1234567890,
		math.MaxUint32,
		math.MaxUint64,
	}

	for _, n := range numbers {
		buf := encode.EncodeVarint(nil, n)
		pbuf := proto.EncodeVarint(n)
		if !testutil.DeepEqual(buf, pbuf) {
			t.Errorf("EncodeVarint(%d): got %v want %v", n, buf, pbuf)
		}
		ret, r, ok := encode.DecodeVarint(buf)
		if !ok {
			t.Errorf("DecodeVarint(%v) failed", buf)
		} else if len(ret) != 0 {
			t.Errorf("DecodeVarint(%v): got %v want []", buf, ret)
		} else if n != r {
			t.Errorf("DecodeVarint(%v): got %d want %d", buf, r, n)
		}
	}
}

func TestEncodeZigzag64(t *testing.T) {
	numbers := []int64{
		0,
		1,
		125,
		126,
		127,
		128,
		129,
		0xFF,
		0x100,
		0xFFF,
		0x1000,
		0x7F7F,
		1234567890,
		10000000000,
		math.MaxInt32,
		math.MaxInt64,
		math.MinInt32,
		math.MinInt64,
		-987654321,
		-1000000000,
		-125,
		-126,
		-127,
		-128,
		-129,
		-0xFF,
	}

	for _, n := range numbers {
		buf := encode.EncodeZigzag64(nil, n)
		enc := proto.NewBuffer(nil)
		err := enc.EncodeZigzag64(uint64(n))
		if err != nil {
			t.Errorf("proto.EncodeZigzag64(%d) failed with %s", n, err)
		} else {
			pbuf := enc.Bytes()
			if !testutil.DeepEqual(buf, pbuf) {
				t.Errorf("EncodeZigzag64(%d): got %v want %v", n, buf, pbuf)
			}
		}
		ret, r, ok := encode.DecodeZigzag64(buf)
		if !ok {
			t.Errorf("DecodeZigzag64(%v) failed", buf)
		} else if len(ret) != 0 {
			t.Errorf("DecodeZigzag64(%v): got %v want []", buf, ret)
		} else if n != r {
			t.Errorf("DecodeZigzag64(%v): got %d want %d", buf, r, n)
		}
	}
}

func TestRowValue(t *testing.T) {
	wide := make(sql.Row, 40)
	for i := range wide {
		if i%3 != 0 {
			wide[i] = sql.Int64Value(i * 1000)
		}
	}

	rows := []sql.Row{
		{},
		{nil},
		{sql.Int64Value(1), sql.StringValue("abc")},
		{sql.BoolValue(true), sql.BoolValue(false), nil, sql.Float64Value(-1.5)},
		{nil, nil, sql.BytesValue{0, 1, 2}, sql.StringValue(""), sql.Int64Value(math.MinInt64)},
		wide,
	}

	for _, row := range rows {
		buf := encode.EncodeRowValue(row)
		ret, err := encode.DecodeRowValue(buf)
		if err != nil {
			t.Errorf("DecodeRowValue(%v) failed with %s", row, err)
		} else if !testutil.DeepEqual(ret, row) {
			t.Errorf("DecodeRowValue(%v) got %v want %v", row, ret, row)
		}
	}

	buf := encode.EncodeRowValue(sql.Row{sql.StringValue("abcdef")})
	_, err := encode.DecodeRowValue(buf[:len(buf)-2])
	if err == nil {
		t.Error("DecodeRowValue(truncated) did not fail")
	}
	_, err = encode.DecodeRowValue(nil)
	if err == nil {
		t.Error("DecodeRowValue(nil) did not fail")
	}
}
