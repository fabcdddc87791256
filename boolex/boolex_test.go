package boolex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunc(t *testing.T) {
	assert := assert.New(t)
	cases := []struct {
		idx  int
		name string
		tt   [4]bool // outputs for (0,0), (0,1), (1,0), (1,1)
	}{
		{0, "f", [4]bool{false, false, false, false}},
		{1, "and", [4]bool{false, false, false, true}},
		{6, "xor", [4]bool{false, true, true, false}},
		{7, "or", [4]bool{false, true, true, true}},
		{8, "nor", [4]bool{true, false, false, false}},
		{14, "nand", [4]bool{true, true, true, false}},
		{15, "t", [4]bool{true, true, true, true}},
	}
	for _, c := range cases {
		assert.Equal(c.name, Names[c.idx])
		assert.Equal(c.tt[0], Func(c.idx, false, false), "%s(0,0)", c.name)
		assert.Equal(c.tt[1], Func(c.idx, false, true), "%s(0,1)", c.name)
		assert.Equal(c.tt[2], Func(c.idx, true, false), "%s(1,0)", c.name)
		assert.Equal(c.tt[3], Func(c.idx, true, true), "%s(1,1)", c.name)
	}
}

func TestSetLayout(t *testing.T) {
	assert := assert.New(t)
	s := New()
	Set0(s, 0, 1, 1, 0) // xor
	Set1(s, 0, 0, 0, 1) // and

	assert.Equal(16, s.Count())
	for i := 0; i < s.Count(); i++ {
		assert.Equal(float32(i%2), s.H(i), "example %d", i)
	}
	// the second half repeats the first
	for i := 0; i < 8; i++ {
		assert.Equal(s.Inputs(i), s.Inputs(i+8))
		assert.Equal(s.Outputs(i), s.Outputs(i+8))
	}
	// spot checks: (0,1) under xor at h=0, (1,1) under and at h=1
	assert.Equal([]float32{0, 1}, s.Inputs(2))
	assert.Equal(float32(1), s.Outputs(2)[0])
	assert.Equal([]float32{1, 1}, s.Inputs(7))
	assert.Equal(float32(1), s.Outputs(7)[0])
}

func TestPairing(t *testing.T) {
	assert := assert.New(t)
	s := Pairing(6, 1) // xor then and
	assert.Equal(8, s.Count())
	for c, in := range [][2]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		lo, hi := 2*c, 2*c+1
		assert.Equal(in[:], s.Inputs(lo))
		assert.Equal(in[:], s.Inputs(hi))
		assert.Equal(float32(0), s.H(lo))
		assert.Equal(float32(1), s.H(hi))
		a, b := in[0] != 0, in[1] != 0
		assert.Equal(Func(6, a, b), s.Outputs(lo)[0] > 0.5)
		assert.Equal(Func(1, a, b), s.Outputs(hi)[0] > 0.5)
	}
}
