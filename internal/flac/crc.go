package flac

// FLAC frame checksums: CRC-8 (polynomial 0x07, init 0) over the frame
// header, CRC-16 (polynomial 0x8005, init 0, unreflected) over the whole
// frame up to but excluding the trailing checksum itself.

var crc8Table [256]uint8

var crc16Table [256]uint16

func init() {
	for i := range crc8Table {
		crc := uint8(i)
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
		crc8Table[i] = crc
	}
	for i := range crc16Table {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x8005
			} else {
				crc <<= 1
			}
		}
		crc16Table[i] = crc
	}
}

func crc8(data []byte) uint8 {
	var crc uint8
	for _, b := range data {
		crc = crc8Table[crc^b]
	}
	return crc
}

type crc16 uint16

func (c *crc16) update(data []byte) {
	crc := uint16(*c)
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}
	*c = crc16(crc)
}

func (c crc16) sum() uint16 {
	return uint16(c)
}
