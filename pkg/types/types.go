// Package types defines common data structures used across the mangler components.
package types

// MutationType identifies one operator of the mangling catalog
type MutationType int

const (
	Byte       MutationType = iota // Overwrite one byte with a random value
	Bit                            // Flip a single bit
	Bytes                          // Overwrite 2-4 bytes with random data
	Magic                          // Overwrite with a boundary integer (0, -1, MAX_INT, ...)
	IncByte                        // Increment one byte
	DecByte                        // Decrement one byte
	AddSub                         // Add/subtract a small delta to a 1/2/4-byte field
	Dictionary                     // Overwrite with a dictionary token
	MemMove                        // Move a block inside the buffer
	MemSet                         // Fill a block with one value
	Random                         // Fill a block with random bytes
	CloneByte                      // Swap two bytes
	Trunc                          // Shrink the logical size
	Expand                         // Grow the logical size
)

var mutationNames = [...]string{
	Byte:       "byte",
	Bit:        "bit",
	Bytes:      "bytes",
	Magic:      "magic",
	IncByte:    "inc_byte",
	DecByte:    "dec_byte",
	AddSub:     "add_sub",
	Dictionary: "dictionary",
	MemMove:    "mem_move",
	MemSet:     "mem_set",
	Random:     "random",
	CloneByte:  "clone_byte",
	Trunc:      "trunc",
	Expand:     "expand",
}

// String returns the stable name of the mutation type
func (t MutationType) String() string {
	if t < 0 || int(t) >= len(mutationNames) {
		return "unknown"
	}
	return mutationNames[t]
}

// AllMutationTypes returns every mutation type once, in declaration order
func AllMutationTypes() []MutationType {
	all := make([]MutationType, len(mutationNames))
	for i := range all {
		all[i] = MutationType(i)
	}
	return all
}

// Variant describes one generated test case
type Variant struct {
	Seed     string `json:"seed"`     // Name of the seed it was derived from
	Name     string `json:"name"`     // File name in the output directory
	Size     int    `json:"size"`     // Logical size after mangling
	Rounds   int    `json:"rounds"`   // Mutation rounds applied
	Distance int    `json:"distance"` // TLSH distance to the seed, -1 if not computable
	Written  bool   `json:"written"`  // False when an identical variant already existed
}
