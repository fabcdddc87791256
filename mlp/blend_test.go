package mlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/uesmann/example"
)

func TestBlendRejectsBatches(t *testing.T) {
	s := lineSet(4)
	n, err := NewBlendNet(1, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := n.TrainBatch(s, 0, 2, 0.1); err == nil {
		t.Error("expected an error for a batch of 2")
	}
}

func TestBlendRouting(t *testing.T) {
	assert := assert.New(t)
	s := example.New(2, 1, 1, 2)
	s.Inputs(0)[0] = 0.3
	s.Outputs(0)[0] = 1
	s.SetH(0, 0)
	s.Inputs(1)[0] = 0.7
	s.Outputs(1)[0] = 0
	s.SetH(1, 1)

	n, err := NewBlendNet(1, 2, 1)
	assert.NoError(err)
	n.Seed(5)
	n.InitWeights(-1)

	before0 := make([]float32, n.Net0().DataSize())
	before1 := make([]float32, n.Net1().DataSize())
	n.Net0().Save(before0)
	n.Net1().Save(before1)

	// a low example touches only net0
	_, err = n.TrainBatch(s, 0, 1, 1)
	assert.NoError(err)
	after0 := make([]float32, len(before0))
	after1 := make([]float32, len(before1))
	n.Net0().Save(after0)
	n.Net1().Save(after1)
	assert.NotEqual(before0, after0)
	assert.Equal(before1, after1)

	// a high example touches only net1
	n.Net0().Save(before0)
	_, err = n.TrainBatch(s, 1, 1, 1)
	assert.NoError(err)
	n.Net0().Save(after0)
	n.Net1().Save(after1)
	assert.Equal(before0, after0)
	assert.NotEqual(before1, after1)
}

func TestBlendInterpolation(t *testing.T) {
	assert := assert.New(t)
	n, err := NewBlendNet(1, 1)
	assert.NoError(err)

	// leave net0 at zero (output 0.5) and bias net1's output unit so
	// it yields sigmoid(1)
	buf := make([]float32, n.DataSize())
	buf[4] = 1 // net1's block starts at 3; its output bias is next
	n.Load(buf)

	o0 := float32(0.5)
	o1 := sigmoid(1)
	for _, h := range []float32{0, 0.25, 0.5, 1} {
		n.SetH(h)
		out := n.Run([]float32{0.4})[0]
		assert.Equal(h*o1+(1-h)*o0, out, "h=%v", h)
	}
}

func TestBlendErrorAveraging(t *testing.T) {
	assert := assert.New(t)
	s := example.New(2, 1, 1, 2)
	s.Inputs(0)[0] = 1
	s.Outputs(0)[0] = 0
	s.SetH(0, 0)
	s.Inputs(1)[0] = 1
	s.Outputs(1)[0] = 0.9
	s.SetH(1, 1)

	n, err := NewBlendNet(1, 1)
	assert.NoError(err)

	// eta 0 keeps both engines at zero, so every call's raw error is
	// predictable: 0.25 on the low side, (0.5-0.9)² on the high side
	e0 := float32(0.25)
	e1 := (float32(0.5) - 0.9) * (float32(0.5) - 0.9)

	got, err := n.TrainBatch(s, 0, 1, 0) // first call is provisional
	assert.NoError(err)
	assert.Equal(e0, got)

	got, err = n.TrainBatch(s, 1, 1, 0) // completes the pair
	assert.NoError(err)
	mean := (e1 + e0) * 0.5
	assert.Equal(mean, got)

	got, err = n.TrainBatch(s, 0, 1, 0) // low side repeats the mean
	assert.NoError(err)
	assert.Equal(mean, got)

	got, err = n.TrainBatch(s, 1, 1, 0) // new pair, new mean
	assert.NoError(err)
	assert.Equal((e1+mean)*0.5, got)

	// a fresh net's first call is provisional whichever side it is
	m, err := NewBlendNet(1, 1)
	assert.NoError(err)
	got, err = m.TrainBatch(s, 1, 1, 0)
	assert.NoError(err)
	assert.Equal(e1, got)
}

func TestBlendSaveLoad(t *testing.T) {
	assert := assert.New(t)
	n, err := NewBlendNet(2, 3, 1)
	assert.NoError(err)
	assert.Equal(2*(2+3*3+1*4), n.DataSize())

	n.Seed(21)
	n.InitWeights(-1)
	buf := make([]float32, n.DataSize())
	n.Save(buf)

	m, err := NewBlendNet(2, 3, 1)
	assert.NoError(err)
	m.Load(buf)
	buf2 := make([]float32, m.DataSize())
	m.Save(buf2)
	assert.Equal(buf, buf2)
}
