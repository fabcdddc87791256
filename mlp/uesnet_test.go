package mlp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/uesmann/example"
)

func TestUESNetModulation(t *testing.T) {
	assert := assert.New(t)
	u, err := NewUESNet(1, 1)
	assert.NoError(err)
	// single connection: out = sigmoid(2x(h+1) + 0.5)
	u.Load([]float32{0, 0.5, 2})

	u.SetH(0)
	assert.Equal(sigmoid(1), u.Run([]float32{0.25})[0])
	u.SetH(1)
	assert.Equal(sigmoid(1.5), u.Run([]float32{0.25})[0])
	u.SetH(3)
	assert.Equal(sigmoid(2.5), u.Run([]float32{0.25})[0])
}

func TestZeroModulatorMatchesPlain(t *testing.T) {
	assert := assert.New(t)
	s := lineSet(32) // all modulators 0

	p, err := NewBPNet(1, 4, 1)
	assert.NoError(err)
	u, err := NewUESNet(1, 4, 1)
	assert.NoError(err)

	p.Seed(99)
	p.InitWeights(-1)
	u.Seed(99)
	u.InitWeights(-1)

	for i := 0; i < 32; i++ {
		pe, err := p.TrainBatch(s, i, 1, 0.7)
		assert.NoError(err)
		ue, err := u.TrainBatch(s, i, 1, 0.7)
		assert.NoError(err)
		assert.Equal(pe, ue, "training errors diverged at step %d", i)
	}

	pb := make([]float32, p.DataSize())
	ub := make([]float32, u.DataSize())
	p.Save(pb)
	u.Save(ub)
	if diff := cmp.Diff(pb, ub); diff != "" {
		t.Errorf("parameters diverged at h=0 (-plain +uesmann):\n%s", diff)
	}

	u.SetH(0)
	for _, x := range []float32{0.1, 0.5, 0.9} {
		assert.Equal(p.Run([]float32{x})[0], u.Run([]float32{x})[0])
	}
}

func TestBatchAppliesLastModulator(t *testing.T) {
	assert := assert.New(t)

	build := func(h0, h1 float32) *example.Set {
		s := example.New(2, 1, 1, 2)
		for i, h := range []float32{h0, h1} {
			s.Inputs(i)[0] = 1
			s.Outputs(i)[0] = 0
			s.SetH(i, h)
		}
		return s
	}
	train := func(s *example.Set) []float32 {
		u, err := NewUESNet(1, 1)
		assert.NoError(err)
		_, err = u.TrainBatch(s, 0, 2, 1)
		assert.NoError(err)
		buf := make([]float32, u.DataSize())
		u.Save(buf)
		return buf
	}

	// both batches hold the same two examples; only the order, and so
	// the modulator of the final example, differs
	up := train(build(0, 1))   // final example has h=1
	down := train(build(1, 0)) // final example has h=0

	// with x=1, t=0 and zero parameters each example's output is 0.5
	// and its delta 0.125 whatever its h, so the averaged gradients
	// agree and only the final modulator separates the weight steps;
	// the bias step never sees the modulator
	assert.Equal([]float32{0, -0.125, -0.25}, up)
	assert.Equal([]float32{0, -0.125, -0.125}, down)
}
