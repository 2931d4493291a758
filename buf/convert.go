package buf

import (
	"encoding/binary"
)

// The wire format carried by this module is little-endian, so every integer
// helper here uses little-endian byte order.

// Byte2Uint16 byte array to uint16 value in little-endian order
func Byte2Uint16(data []byte) uint16 {
	return binary.LittleEndian.Uint16(data)
}

// Byte2Uint32 byte array to uint32 value in little-endian order
func Byte2Uint32(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data)
}

// Byte2Uint64 byte array to uint64 value in little-endian order
func Byte2Uint64(data []byte) uint64 {
	return binary.LittleEndian.Uint64(data)
}

// Uint16ToBytesTo uint16 value to bytes array in little-endian order
func Uint16ToBytesTo(v uint16, ret []byte) {
	binary.LittleEndian.PutUint16(ret, v)
}

// Uint16ToBytes uint16 value to bytes array in little-endian order
func Uint16ToBytes(v uint16) []byte {
	ret := make([]byte, 2)
	Uint16ToBytesTo(v, ret)
	return ret
}

// Uint32ToBytesTo uint32 value to bytes array in little-endian order
func Uint32ToBytesTo(v uint32, ret []byte) {
	binary.LittleEndian.PutUint32(ret, v)
}

// Uint32ToBytes uint32 value to bytes array in little-endian order
func Uint32ToBytes(v uint32) []byte {
	ret := make([]byte, 4)
	Uint32ToBytesTo(v, ret)
	return ret
}

// Uint64ToBytesTo uint64 value to bytes array in little-endian order
func Uint64ToBytesTo(v uint64, ret []byte) {
	binary.LittleEndian.PutUint64(ret, v)
}

// Uint64ToBytes uint64 value to bytes array in little-endian order
func Uint64ToBytes(v uint64) []byte {
	ret := make([]byte, 8)
	Uint64ToBytesTo(v, ret)
	return ret
}
