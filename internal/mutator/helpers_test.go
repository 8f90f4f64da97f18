package mutator

import (
	"bytes"
	"testing"
)

// scriptedRNG replays a fixed sequence of draws and fails the test if a
// draw falls outside the bounds the operator asked for.
type scriptedRNG struct {
	t      *testing.T
	values []uint64
	calls  [][2]uint64
	fill   byte
	fills  int
}

func newScripted(t *testing.T, values ...uint64) *scriptedRNG {
	return &scriptedRNG{t: t, values: values, fill: 0xEE}
}

func (s *scriptedRNG) Range(low, high uint64) uint64 {
	s.t.Helper()
	s.calls = append(s.calls, [2]uint64{low, high})
	if len(s.values) == 0 {
		s.t.Fatalf("scripted RNG exhausted at Range(%d, %d)", low, high)
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < low || v > high {
		s.t.Fatalf("scripted value %d outside [%d, %d]", v, low, high)
	}
	return v
}

func (s *scriptedRNG) Fill(buf []byte) {
	s.fills++
	for i := range buf {
		buf[i] = s.fill
	}
}

func (s *scriptedRNG) assertDrained() {
	s.t.Helper()
	if len(s.values) != 0 {
		s.t.Errorf("scripted RNG has %d unused values", len(s.values))
	}
}

const sentinel = 0xCC

// newTestCandidate builds a candidate whose dead tail is filled with sentinel bytes
func newTestCandidate(capacity int, live []byte) *Candidate {
	buf := bytes.Repeat([]byte{sentinel}, capacity)
	copy(buf, live)
	return &Candidate{Buf: buf, Size: len(live)}
}

// assertTail checks that nothing beyond from was written
func assertTail(t *testing.T, c *Candidate, from int) {
	t.Helper()
	for i := from; i < len(c.Buf); i++ {
		if c.Buf[i] != sentinel {
			t.Fatalf("byte %d beyond logical size was modified: 0x%02x", i, c.Buf[i])
		}
	}
}

// panicDict fails the test when the dictionary contents are read
type panicDict struct {
	t *testing.T
}

func (d panicDict) Len() int { return 0 }

func (d panicDict) Entry(i int) []byte {
	d.t.Fatalf("empty dictionary was read at index %d", i)
	return nil
}
