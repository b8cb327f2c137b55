package protocol

// Checksum is the additive frame checksum: the sum of every byte modulo 256.
func Checksum(data ...[]byte) byte {
	var sum byte
	for _, chunk := range data {
		for _, b := range chunk {
			sum += b
		}
	}
	return sum
}

func VerifyChecksum(data []byte, expected byte) bool {
	return Checksum(data) == expected
}

// Frame appends the checksum of address and payload to a write request.
func Frame(address byte, payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+2)
	frame = append(frame, address)
	frame = append(frame, payload...)
	return append(frame, Checksum(frame))
}
