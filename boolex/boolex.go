// Package boolex builds example sets for two-input boolean functions
// under a binary modulator: one function at h=0, another at h=1, so a
// trained net can be checked for switching behaviour with h.
package boolex

import "github.com/gorgonia/uesmann/example"

// Names lists the sixteen two-input boolean functions by truth-table
// index. The index's bits are the outputs for inputs (1,1), (1,0),
// (0,1) and (0,0), lowest bit first.
var Names = [16]string{
	"f", "and", "x and !y", "x", "!x and y", "y", "xor", "or",
	"nor", "xnor", "!y", "x or !y", "!x", "!x or y", "nand", "t",
}

// Func evaluates function idx of the Names table on (a, b).
func Func(idx int, a, b bool) bool {
	bit := 0
	if !a {
		bit += 2
	}
	if !b {
		bit++
	}
	return idx&(1<<bit) != 0
}

// the four input pairs in canonical order
var cases = [4][2]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

// New returns the canonical sixteen-example two-function set: the four
// input cases at each of two modulator levels, interleaved h=0/h=1 and
// repeated, so the second half can serve as held-out data identical to
// the first. Fill it with Set0 and Set1.
func New() *example.Set {
	return example.New(16, 2, 1, 2)
}

// Set0 fills the h=0 examples of s with the four input cases mapped to
// the given outputs; o00 is the target for inputs (0,0), o01 for (0,1)
// and so on.
func Set0(s *example.Set, o00, o01, o10, o11 float32) {
	fill(s, 0, 0, [4]float32{o00, o01, o10, o11})
}

// Set1 fills the h=1 examples.
func Set1(s *example.Set, o00, o01, o10, o11 float32) {
	fill(s, 1, 1, [4]float32{o00, o01, o10, o11})
}

func fill(s *example.Set, first int, h float32, outs [4]float32) {
	for rep := 0; rep < 2; rep++ {
		for c, in := range cases {
			i := first + 2*(c+4*rep)
			copy(s.Inputs(i), in[:])
			s.Outputs(i)[0] = outs[c]
			s.SetH(i, h)
		}
	}
}

// Pairing builds the eight-example set used for function-pair sweeps:
// for each input case, function f1's output at h=0 immediately
// followed by f2's at h=1. The layout suits stride shuffling, which
// keeps the h=0/h=1 pairs together.
func Pairing(f1, f2 int) *example.Set {
	s := example.New(8, 2, 1, 2)
	for c, in := range cases {
		a, b := in[0] != 0, in[1] != 0
		i := 2 * c
		copy(s.Inputs(i), in[:])
		s.Outputs(i)[0] = b2f(Func(f1, a, b))
		s.SetH(i, 0)
		copy(s.Inputs(i+1), in[:])
		s.Outputs(i+1)[0] = b2f(Func(f2, a, b))
		s.SetH(i+1, 1)
	}
	return s
}

func b2f(v bool) float32 {
	if v {
		return 1
	}
	return 0
}
