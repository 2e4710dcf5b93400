package encode

import (
	"fmt"
	"math"

	"github.com/woojinnn/gluesql/sql"
)

const (
	// The SQL values are encoded as a tag followed by a binary representation
	// of the value; the encoded keys sort in the same order as the values.
	NullKeyTag              = 128
	BoolKeyTag              = 129
	Int64NegKeyTag          = 130
	Int64NotNegKeyTag       = 131
	Float64NaNKeyTag        = 140
	Float64NegKeyTag        = 141
	Float64ZeroKeyTag       = 142
	Float64PosKeyTag        = 143
	Float64NaNReverseKeyTag = 144
	StringKeyTag            = 150
	BytesKeyTag             = 160
)

func encodeKeyBytes(buf []byte, bytes []byte, reverse bool) []byte {
	n := len(buf)
	for _, b := range bytes {
		if b == 0 || b == 1 {
			buf = append(buf, 1)
		}
		buf = append(buf, b)
	}
	buf = append(buf, 0)

	if reverse {
		for n < len(buf) {
			buf[n] = ^buf[n]
			n += 1
		}
	}
	return buf
}

// AppendKey appends the key encoding of val to buf. NULL always sorts first.
func AppendKey(buf []byte, val sql.Value, reverse bool) []byte {
	switch val := val.(type) {
	case nil:
		buf = append(buf, NullKeyTag)
	case sql.BoolValue:
		if reverse {
			val = !val
		}
		buf = append(buf, BoolKeyTag)
		if val {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case sql.StringValue:
		buf = append(buf, StringKeyTag)
		buf = encodeKeyBytes(buf, []byte(val), reverse)
	case sql.BytesValue:
		buf = append(buf, BytesKeyTag)
		buf = encodeKeyBytes(buf, []byte(val), reverse)
	case sql.Float64Value:
		if reverse {
			val = -val
		}
		if math.IsNaN(float64(val)) {
			if reverse {
				buf = append(buf, Float64NaNReverseKeyTag)
			} else {
				buf = append(buf, Float64NaNKeyTag)
			}
		} else if val == 0 {
			buf = append(buf, Float64ZeroKeyTag)
		} else {
			u := math.Float64bits(float64(val))
			if u&(1<<63) != 0 {
				u = ^u
				buf = append(buf, Float64NegKeyTag)
			} else {
				buf = append(buf, Float64PosKeyTag)
			}
			buf = EncodeUint64(buf, u)
		}
	case sql.Int64Value:
		if reverse {
			val = ^val
		}
		if val < 0 {
			buf = append(buf, Int64NegKeyTag)
		} else {
			buf = append(buf, Int64NotNegKeyTag)
		}
		buf = EncodeUint64(buf, uint64(val))
	default:
		panic(fmt.Sprintf("unexpected type for sql.Value: %T: %v", val, val))
	}
	return buf
}

// MakeKey encodes a tuple of values; two tuples have the same key exactly when their values
// are equal, with NULL equal to NULL.
func MakeKey(vals []sql.Value) []byte {
	var buf []byte
	for _, val := range vals {
		buf = AppendKey(buf, val, false)
	}
	return buf
}
