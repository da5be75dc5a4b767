package relay

// crc16Poly is the reflected CRC-16 polynomial used by the P1 protocol (CRC-16/ARC).
const crc16Poly = 0xA001

// Checksum computes the telegram checksum as it appears on the wire: a CRC-16 with the
// reflected polynomial 0xA001 and initial value 0, taken over the byte sequence
// '/' + raw + '!'.
func Checksum(raw []byte) uint16 {
	crc := crc16Update(0, '/')
	for _, b := range raw {
		crc = crc16Update(crc, b)
	}
	return crc16Update(crc, '!')
}

func crc16Update(crc uint16, b byte) uint16 {
	crc ^= uint16(b)
	for i := 0; i < 8; i++ {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ crc16Poly
		} else {
			crc >>= 1
		}
	}
	return crc
}
