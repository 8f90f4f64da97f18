package mutator

// Dictionary is a read-only, indexable sequence of tokens
type Dictionary interface {
	// Len returns the number of entries
	Len() int

	// Entry returns the bytes of entry i, 0 <= i < Len()
	Entry(i int) []byte
}

// Words is the slice-backed Dictionary
type Words [][]byte

// Len returns the number of tokens
func (w Words) Len() int {
	return len(w)
}

// Entry returns token i
func (w Words) Entry(i int) []byte {
	return w[i]
}

// dictionaryLen treats a nil dictionary as empty
func dictionaryLen(d Dictionary) int {
	if d == nil {
		return 0
	}
	return d.Len()
}
