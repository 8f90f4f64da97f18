package mutator

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/Laplace1814/honggfuzz/pkg/types"
)

// Apply runs a single operator against the candidate.
// The candidate must be valid and its capacity must cover cfg.MaxFileSize.
func Apply(op types.MutationType, r RNG, c *Candidate, cfg Config, dict Dictionary) {
	switch op {
	case types.Byte:
		mangleByte(r, c)
	case types.Bit:
		mangleBit(r, c)
	case types.Bytes:
		mangleBytes(r, c)
	case types.Magic:
		mangleMagic(r, c)
	case types.IncByte:
		mangleIncByte(r, c)
	case types.DecByte:
		mangleDecByte(r, c)
	case types.AddSub:
		mangleAddSub(r, c)
	case types.Dictionary:
		mangleDictionary(r, c, dict)
	case types.MemMove:
		mangleMemMove(r, c)
	case types.MemSet:
		mangleMemSet(r, c)
	case types.Random:
		mangleRandom(r, c)
	case types.CloneByte:
		mangleCloneByte(r, c)
	case types.Trunc:
		mangleTrunc(r, c)
	case types.Expand:
		mangleExpand(r, c, cfg.MaxFileSize)
	default:
		panic(fmt.Sprintf("mutator: unknown mutation type %d", int(op)))
	}
}

// overwrite copies up to n bytes of src into dst at off, never past dstSize
func overwrite(dst []byte, dstSize, off int, src []byte, n int) {
	if room := dstSize - off; n > room {
		n = room
	}
	copy(dst[off:off+n], src[:n])
}

// offset draws a position inside the live content
func offset(r RNG, c *Candidate) int {
	return int(r.Range(0, uint64(c.Size-1)))
}

// spanLen draws a length in [1, Size-off]
func spanLen(r RNG, c *Candidate, off int) int {
	return int(r.Range(1, uint64(c.Size-off)))
}

func mangleByte(r RNG, c *Candidate) {
	off := offset(r, c)
	c.Buf[off] = byte(r.Range(0, math.MaxUint8))
}

func mangleBit(r RNG, c *Candidate) {
	off := offset(r, c)
	c.Buf[off] ^= byte(1) << r.Range(0, 7)
}

func mangleBytes(r RNG, c *Candidate) {
	off := offset(r, c)
	val := uint32(r.Range(0, math.MaxUint32))

	// Low 2, 3 or 4 bytes of the random value
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], val)
	toCopy := int(r.Range(2, 4))
	overwrite(c.Buf, c.Size, off, tmp[:], toCopy)
}

func mangleMagic(r RNG, c *Candidate) {
	off := offset(r, c)
	choice := r.Range(0, uint64(len(magicValues)-1))
	m := magicValues[choice]
	overwrite(c.Buf, c.Size, off, m.Val[:], m.Size)
}

func mangleIncByte(r RNG, c *Candidate) {
	off := offset(r, c)
	c.Buf[off]++
}

func mangleDecByte(r RNG, c *Candidate) {
	off := offset(r, c)
	c.Buf[off]--
}

func mangleAddSub(r RNG, c *Candidate) {
	off := offset(r, c)

	// 1, 2 or 4
	varLen := 1 << r.Range(0, 2)
	if c.Size-off < varLen {
		varLen = 1
	}

	delta := int(r.Range(0, 64)) - 32

	// Multi-byte fields are read unaligned, in native byte order
	switch varLen {
	case 1:
		c.Buf[off] += byte(delta)
	case 2:
		val := binary.NativeEndian.Uint16(c.Buf[off:])
		if r.Range(0, 1) == 0 {
			val += uint16(delta)
		} else {
			// Foreign endianness
			val = bits.ReverseBytes16(val)
			val += uint16(delta)
			val = bits.ReverseBytes16(val)
		}
		var tmp [2]byte
		binary.NativeEndian.PutUint16(tmp[:], val)
		overwrite(c.Buf, c.Size, off, tmp[:], varLen)
	case 4:
		val := binary.NativeEndian.Uint32(c.Buf[off:])
		if r.Range(0, 1) == 0 {
			val += uint32(delta)
		} else {
			// Foreign endianness
			val = bits.ReverseBytes32(val)
			val += uint32(delta)
			val = bits.ReverseBytes32(val)
		}
		var tmp [4]byte
		binary.NativeEndian.PutUint32(tmp[:], val)
		overwrite(c.Buf, c.Size, off, tmp[:], varLen)
	default:
		panic(fmt.Sprintf("mutator: unknown variable length size: %d", varLen))
	}
}

func mangleDictionary(r RNG, c *Candidate, dict Dictionary) {
	n := dictionaryLen(dict)
	if n == 0 {
		mangleBit(r, c)
		return
	}

	off := offset(r, c)
	choice := int(r.Range(0, uint64(n-1)))
	word := dict.Entry(choice)
	overwrite(c.Buf, c.Size, off, word, len(word))
}

func mangleMemSet(r RNG, c *Candidate) {
	off := offset(r, c)
	sz := spanLen(r, c, off)
	val := byte(r.Range(0, math.MaxUint8))

	span := c.Buf[off : off+sz]
	for i := range span {
		span[i] = val
	}
}

func mangleMemMove(r RNG, c *Candidate) {
	off := offset(r, c)

	to := int(r.Range(0, uint64(c.Size-1)))
	szTo := c.Size - to

	sz := spanLen(r, c, off)
	if szTo < sz {
		sz = szTo
	}

	// copy has memmove semantics for overlapping ranges
	copy(c.Buf[to:to+sz], c.Buf[off:off+sz])
}

func mangleRandom(r RNG, c *Candidate) {
	off := offset(r, c)
	sz := spanLen(r, c, off)
	r.Fill(c.Buf[off : off+sz])
}

func mangleCloneByte(r RNG, c *Candidate) {
	off1 := offset(r, c)
	off2 := offset(r, c)
	c.Buf[off1], c.Buf[off2] = c.Buf[off2], c.Buf[off1]
}

func mangleTrunc(r RNG, c *Candidate) {
	c.Size = int(r.Range(1, uint64(c.Size)))
}

// mangleExpand grows the logical size up to maxFileSize. Newly exposed bytes
// keep whatever the buffer held before.
func mangleExpand(r RNG, c *Candidate, maxFileSize int) {
	c.Size = int(r.Range(uint64(c.Size), uint64(maxFileSize)))
}
