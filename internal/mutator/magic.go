package mutator

// magicValue is a boundary integer encoded in one byte order, Size bytes wide
type magicValue struct {
	Val  [8]byte
	Size int
}

// Bytes returns the encoded value
func (m magicValue) Bytes() []byte {
	return m.Val[:m.Size]
}

// magicValues biases mutation towards 0, +-1, powers of two, sign-bit edges
// and all-ones, in native, big- and little-endian order.
var magicValues = [...]magicValue{
	// 1B, no endianness
	{[8]byte{0x00}, 1},
	{[8]byte{0x01}, 1},
	{[8]byte{0x02}, 1},
	{[8]byte{0x03}, 1},
	{[8]byte{0x04}, 1},
	{[8]byte{0x08}, 1},
	{[8]byte{0x0C}, 1},
	{[8]byte{0x10}, 1},
	{[8]byte{0x20}, 1},
	{[8]byte{0x40}, 1},
	{[8]byte{0x7E}, 1},
	{[8]byte{0x7F}, 1},
	{[8]byte{0x80}, 1},
	{[8]byte{0x81}, 1},
	{[8]byte{0xC0}, 1},
	{[8]byte{0xFE}, 1},
	{[8]byte{0xFF}, 1},
	// 2B, native
	{[8]byte{0x00}, 2},
	{[8]byte{0x01, 0x01}, 2},
	{[8]byte{0x80, 0x80}, 2},
	{[8]byte{0xFF, 0xFF}, 2},
	// 2B, big-endian
	{[8]byte{0x00, 0x01}, 2},
	{[8]byte{0x00, 0x02}, 2},
	{[8]byte{0x00, 0x03}, 2},
	{[8]byte{0x00, 0x04}, 2},
	{[8]byte{0x7E, 0xFF}, 2},
	{[8]byte{0x7F, 0xFF}, 2},
	{[8]byte{0x80}, 2},
	{[8]byte{0x80, 0x01}, 2},
	{[8]byte{0xFF, 0xFE}, 2},
	// 2B, little-endian
	{[8]byte{0x01}, 2},
	{[8]byte{0x02}, 2},
	{[8]byte{0x03}, 2},
	{[8]byte{0x04}, 2},
	{[8]byte{0xFF, 0x7E}, 2},
	{[8]byte{0xFF, 0x7F}, 2},
	{[8]byte{0x00, 0x80}, 2},
	{[8]byte{0x01, 0x80}, 2},
	{[8]byte{0xFE, 0xFF}, 2},
	// 4B, native
	{[8]byte{0x00}, 4},
	{[8]byte{0x01, 0x01, 0x01, 0x01}, 4},
	{[8]byte{0x80, 0x80, 0x80, 0x80}, 4},
	{[8]byte{0xFF, 0xFF, 0xFF, 0xFF}, 4},
	// 4B, big-endian
	{[8]byte{0x00, 0x00, 0x00, 0x01}, 4},
	{[8]byte{0x00, 0x00, 0x00, 0x02}, 4},
	{[8]byte{0x00, 0x00, 0x00, 0x03}, 4},
	{[8]byte{0x00, 0x00, 0x00, 0x04}, 4},
	{[8]byte{0x7E, 0xFF, 0xFF, 0xFF}, 4},
	{[8]byte{0x7F, 0xFF, 0xFF, 0xFF}, 4},
	{[8]byte{0x80}, 4},
	{[8]byte{0x80, 0x00, 0x00, 0x01}, 4},
	{[8]byte{0xFF, 0xFF, 0xFF, 0xFE}, 4},
	// 4B, little-endian
	{[8]byte{0x01}, 4},
	{[8]byte{0x02}, 4},
	{[8]byte{0x03}, 4},
	{[8]byte{0x04}, 4},
	{[8]byte{0xFF, 0xFF, 0xFF, 0x7E}, 4},
	{[8]byte{0xFF, 0xFF, 0xFF, 0x7F}, 4},
	{[8]byte{0x00, 0x00, 0x00, 0x80}, 4},
	{[8]byte{0x01, 0x00, 0x00, 0x80}, 4},
	{[8]byte{0xFE, 0xFF, 0xFF, 0xFF}, 4},
	// 8B, native
	{[8]byte{0x00}, 8},
	{[8]byte{0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}, 8},
	{[8]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}, 8},
	{[8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 8},
	// 8B, big-endian
	{[8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, 8},
	{[8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02}, 8},
	{[8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03}, 8},
	{[8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04}, 8},
	{[8]byte{0x7E, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 8},
	{[8]byte{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 8},
	{[8]byte{0x80}, 8},
	{[8]byte{0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, 8},
	{[8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}, 8},
	// 8B, little-endian
	{[8]byte{0x01}, 8},
	{[8]byte{0x02}, 8},
	{[8]byte{0x03}, 8},
	{[8]byte{0x04}, 8},
	{[8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7E}, 8},
	{[8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}, 8},
	{[8]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}, 8},
	{[8]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}, 8},
	{[8]byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 8},
}
