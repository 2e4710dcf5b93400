package encode

import (
	"encoding/binary"
)

// EncodeVarint appends n to buf using the protobuf base 128 varint encoding.
func EncodeVarint(buf []byte, n uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(tmp[:], n)
	return append(buf, tmp[:l]...)
}

func DecodeVarint(buf []byte) ([]byte, uint64, bool) {
	n, l := binary.Uvarint(buf)
	if l <= 0 {
		return nil, 0, false
	}
	return buf[l:], n, true
}

// EncodeZigzag64 appends n to buf as a zigzag encoded varint so that small negative
// numbers stay short.
func EncodeZigzag64(buf []byte, n int64) []byte {
	return EncodeVarint(buf, uint64(n<<1)^uint64(n>>63))
}

func DecodeZigzag64(buf []byte) ([]byte, int64, bool) {
	buf, u, ok := DecodeVarint(buf)
	if !ok {
		return nil, 0, false
	}
	return buf, int64(u>>1) ^ -int64(u&1), true
}

// EncodeUint64 appends n to buf in big endian order, which sorts the same as n.
func EncodeUint64(buf []byte, n uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], n)
	return append(buf, tmp[:]...)
}
