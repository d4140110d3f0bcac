package bit

// IsSet32 will check if the bit at the specified index of a 32 bit word is set to 1.
func IsSet32(index uint8, value uint32) bool {
	return (value>>index)&1 == 1
}

// Set32 returns value with the bit at the specified index set to 1.
func Set32(index uint8, value uint32) uint32 {
	return value | (1 << index)
}

// Mask returns a value with the lowest width bits set.
func Mask(width uint8) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (1 << width) - 1
}

// Field extracts width bits starting at offset.
// Example: Field(0x00C00000, 22, 6) -> 0b000011
func Field(value uint32, offset, width uint8) uint32 {
	return (value >> offset) & Mask(width)
}

// Place masks field to width bits and shifts it to offset, ready to be OR-ed into a word.
func Place(field uint32, offset, width uint8) uint32 {
	return (field & Mask(width)) << offset
}

// Nibbles splits the low 12 bits of value into its three nibbles, high to low.
func Nibbles(value uint16) (high, mid, low uint8) {
	return uint8(value>>8) & 0xF, uint8(value>>4) & 0xF, uint8(value) & 0xF
}

// Byte joins two nibbles into one byte, the first being the most significant.
func Byte(high, low uint8) uint8 {
	return (high&0xF)<<4 | low&0xF
}
