package frame

// X.25 checksum (CRC-16/MCRF4XX): polynomial 0x1021 reflected, initial value
// 0xffff, no final xor. The wire format transmits it low byte first.

const crcInit uint16 = 0xffff

func crcAccumulate(b byte, crc uint16) uint16 {
	tmp := b ^ byte(crc)
	tmp ^= tmp << 4
	return (crc >> 8) ^ (uint16(tmp) << 8) ^ (uint16(tmp) << 3) ^ (uint16(tmp) >> 4)
}

func crcX25(data []byte) uint16 {
	sum := crcInit
	for _, b := range data {
		sum = crcAccumulate(b, sum)
	}
	return sum
}
