// Package example provides the storage layer for training data: flat
// sets of examples carrying a per-example modulator value, subset views
// onto a parent set, and the shuffling strategies the trainer relies on.
package example

import (
	"github.com/pkg/errors"
)

// offsets locates one example inside the backing buffer. Shuffling
// permutes these, never the buffer itself.
type offsets struct {
	ins  uint32
	outs uint32
	h    uint32
}

// Set is a collection of training examples backed by a single flat
// float32 buffer. Each example occupies a contiguous run of inputs,
// outputs and one modulator value. A Set is either an owner (allocated
// by New) or a view onto another Set's buffer (built by Subset); a view
// has its own example ordering but shares storage, so mutating an
// example through a view mutates the parent too.
type Set struct {
	data []float32
	x    []offsets

	nIn     int
	nOut    int
	hLevels int

	minH float32
	maxH float32
	hset bool

	parent *Set
}

// New allocates a Set of n examples, each with nIn inputs, nOut outputs
// and a single modulator, all initially zero. hLevels is the number of
// distinct modulator levels the set is expected to hold; it drives
// Level bucketing and the structured shuffle modes.
func New(n, nIn, nOut, hLevels int) *Set {
	stride := nIn + nOut + 1
	s := &Set{
		data:    make([]float32, n*stride),
		x:       make([]offsets, n),
		nIn:     nIn,
		nOut:    nOut,
		hLevels: hLevels,
	}
	for i := range s.x {
		base := uint32(i * stride)
		s.x[i] = offsets{
			ins:  base,
			outs: base + uint32(nIn),
			h:    base + uint32(nIn+nOut),
		}
	}
	return s
}

// Subset returns a view of length examples starting at start. The view
// shares the receiver's buffer but owns its example ordering, so the
// two can be shuffled independently. Modulator range metadata is
// inherited from the receiver as it stands at the time of the call.
func (s *Set) Subset(start, length int) (*Set, error) {
	if start < 0 || length < 1 || start+length > len(s.x) {
		return nil, errors.Errorf("subset [%d, %d) out of range for set of %d examples", start, start+length, len(s.x))
	}
	v := &Set{
		data:    s.data,
		x:       make([]offsets, length),
		nIn:     s.nIn,
		nOut:    s.nOut,
		hLevels: s.hLevels,
		minH:    s.minH,
		maxH:    s.maxH,
		hset:    s.hset,
		parent:  s,
	}
	copy(v.x, s.x[start:start+length])
	return v, nil
}

// Clone returns a deep copy of s that owns its storage. Cloning a view
// copies the whole underlying buffer, so the clone neither sees nor
// causes changes to the original. Useful for handing the same data to
// concurrent training runs.
func (s *Set) Clone() *Set {
	c := *s
	c.data = make([]float32, len(s.data))
	copy(c.data, s.data)
	c.x = make([]offsets, len(s.x))
	copy(c.x, s.x)
	c.parent = nil
	return &c
}

// Count returns the number of examples in the set.
func (s *Set) Count() int { return len(s.x) }

// InputCount returns the number of inputs per example.
func (s *Set) InputCount() int { return s.nIn }

// OutputCount returns the number of outputs per example.
func (s *Set) OutputCount() int { return s.nOut }

// HLevels returns the number of modulator levels the set was built for.
func (s *Set) HLevels() int { return s.hLevels }

// IsView reports whether the set shares another set's buffer.
func (s *Set) IsView() bool { return s.parent != nil }

// Inputs returns the input slice of example i. The slice aliases the
// backing buffer, so writes through it are visible to every view.
func (s *Set) Inputs(i int) []float32 {
	o := s.x[i]
	return s.data[o.ins : o.ins+uint32(s.nIn)]
}

// Outputs returns the output slice of example i, aliasing the backing
// buffer like Inputs.
func (s *Set) Outputs(i int) []float32 {
	o := s.x[i]
	return s.data[o.outs : o.outs+uint32(s.nOut)]
}

// H returns the modulator of example i.
func (s *Set) H(i int) float32 { return s.data[s.x[i].h] }

// SetH sets the modulator of example i and widens the observed
// modulator range used by Level.
func (s *Set) SetH(i int, h float32) {
	s.data[s.x[i].h] = h
	if !s.hset {
		s.minH, s.maxH = h, h
		s.hset = true
		return
	}
	if h < s.minH {
		s.minH = h
	}
	if h > s.maxH {
		s.maxH = h
	}
}

// HRange returns the observed modulator range.
func (s *Set) HRange() (min, max float32) { return s.minH, s.maxH }

// Level returns the modulator bucket of example i: the observed range
// is divided evenly into HLevels buckets and the example's modulator
// mapped into one of them. Sets with fewer than two levels, or whose
// modulators are all equal, put everything in bucket 0.
func (s *Set) Level(i int) int {
	if s.hLevels < 2 || s.maxH <= s.minH {
		return 0
	}
	h := s.data[s.x[i].h]
	l := int(((h - s.minH) / (s.maxH - s.minH)) * float32(s.hLevels-1))
	if l < 0 {
		l = 0
	}
	if l >= s.hLevels {
		l = s.hLevels - 1
	}
	return l
}
