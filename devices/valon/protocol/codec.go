package protocol

import "encoding/binary"

func PackU32(dst []byte, value uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	return append(dst, buf[:]...)
}

func UnpackU32(data []byte) uint32 {
	return binary.BigEndian.Uint32(data)
}

func PackU16(dst []byte, value uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], value)
	return append(dst, buf[:]...)
}

func UnpackU16(data []byte) uint16 {
	return binary.BigEndian.Uint16(data)
}
