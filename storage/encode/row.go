package encode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/woojinnn/gluesql/sql"
)

const (
	boolValueTag    = 1
	int64ValueTag   = 2
	float64ValueTag = 3
	stringValueTag  = 4
	bytesValueTag   = 5
	// Value tags must be less than 16.

	escapeColNum = 15
)

var errCorruptRow = errors.New("encode: corrupt row value")

func encodeColNumValueTag(buf []byte, colNum int, tag byte) []byte {
	if colNum < escapeColNum {
		buf = append(buf, byte(colNum<<4)|tag)
	} else {
		buf = append(buf, escapeColNum<<4|tag)
		buf = EncodeVarint(buf, uint64(colNum))
	}
	return buf
}

// EncodeRowValue encodes a row as its length followed by each non-NULL value tagged with
// its column number.
func EncodeRowValue(row sql.Row) []byte {
	buf := EncodeVarint(nil, uint64(len(row)))
	for num, val := range row {
		switch val := val.(type) {
		case nil:
		case sql.BoolValue:
			buf = encodeColNumValueTag(buf, num, boolValueTag)
			if val {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case sql.StringValue:
			buf = encodeColNumValueTag(buf, num, stringValueTag)
			buf = EncodeVarint(buf, uint64(len(val)))
			buf = append(buf, val...)
		case sql.BytesValue:
			buf = encodeColNumValueTag(buf, num, bytesValueTag)
			buf = EncodeVarint(buf, uint64(len(val)))
			buf = append(buf, val...)
		case sql.Float64Value:
			buf = encodeColNumValueTag(buf, num, float64ValueTag)
			buf = EncodeUint64(buf, math.Float64bits(float64(val)))
		case sql.Int64Value:
			buf = encodeColNumValueTag(buf, num, int64ValueTag)
			buf = EncodeZigzag64(buf, int64(val))
		default:
			panic(fmt.Sprintf("unexpected type for sql.Value: %T: %v", val, val))
		}
	}
	return buf
}

func decodeLength(buf []byte) ([]byte, []byte, bool) {
	buf, u, ok := DecodeVarint(buf)
	if !ok || uint64(len(buf)) < u {
		return nil, nil, false
	}
	return buf[u:], buf[:u], true
}

// DecodeRowValue decodes a row encoded by EncodeRowValue. The returned values do not alias
// buf.
func DecodeRowValue(buf []byte) (sql.Row, error) {
	buf, u, ok := DecodeVarint(buf)
	if !ok {
		return nil, errCorruptRow
	}
	row := make(sql.Row, u)

	for len(buf) > 0 {
		tag := buf[0] & 0x0F
		num := int(buf[0] >> 4)
		buf = buf[1:]
		if num == escapeColNum {
			buf, u, ok = DecodeVarint(buf)
			if !ok {
				return nil, errCorruptRow
			}
			num = int(u)
		}
		if num >= len(row) {
			return nil, errCorruptRow
		}

		var b []byte
		switch tag {
		case boolValueTag:
			if len(buf) < 1 {
				return nil, errCorruptRow
			}
			row[num] = sql.BoolValue(buf[0] != 0)
			buf = buf[1:]
		case stringValueTag:
			buf, b, ok = decodeLength(buf)
			if !ok {
				return nil, errCorruptRow
			}
			row[num] = sql.StringValue(b)
		case bytesValueTag:
			buf, b, ok = decodeLength(buf)
			if !ok {
				return nil, errCorruptRow
			}
			row[num] = sql.BytesValue(append([]byte(nil), b...))
		case float64ValueTag:
			if len(buf) < 8 {
				return nil, errCorruptRow
			}
			row[num] = sql.Float64Value(math.Float64frombits(binary.BigEndian.Uint64(buf)))
			buf = buf[8:]
		case int64ValueTag:
			var n int64
			buf, n, ok = DecodeZigzag64(buf)
			if !ok {
				return nil, errCorruptRow
			}
			row[num] = sql.Int64Value(n)
		default:
			return nil, errCorruptRow
		}
	}

	return row, nil
}
