package mlp

import (
	"github.com/gorgonia/uesmann/example"
)

// UESNet is the multiplicative-modulation network. It shares the plain
// engine's architecture and parameter layout; the modulator h scales
// each node's weighted sum by (h+1) in the forward pass, scales every
// non-output delta by (h+1) in the backward pass, and scales the
// weight step by (h+1) when gradients are applied. Bias steps are
// never modulated. At h=0 all the factors are exactly 1, so the
// computation collapses to the plain engine's, bit for bit.
type UESNet struct {
	BPNet
	modulator float32
}

// NewUESNet builds a multiplicative-modulation network with the given
// layer sizes, input layer first.
func NewUESNet(sizes ...int) (*UESNet, error) {
	b, err := newBPNet(UESMANN, 0, sizes)
	if err != nil {
		return nil, err
	}
	return &UESNet{BPNet: *b}, nil
}

// SetH sets the modulator for subsequent runs and training steps.
func (u *UESNet) SetH(h float32) { u.modulator = h }

// H returns the current modulator.
func (u *UESNet) H() float32 { return u.modulator }

// Run performs the modulated forward pass on in.
func (u *UESNet) Run(in []float32) []float32 {
	u.SetInputs(in)
	u.forward(u.modulator + 1)
	return u.Outputs()
}

// TrainBatch runs one gradient step over num contiguous examples
// starting at start. Each example's stored modulator drives its own
// forward and backward pass; the weight step for the whole batch is
// scaled by the final example's factor. The returned error is always
// nil.
func (u *UESNet) TrainBatch(ex *example.Set, start, num int, eta float32) (float32, error) {
	u.zeroGrads()
	var total float32
	for n := 0; n < num; n++ {
		i := start + n
		u.SetH(ex.H(i))
		targets := ex.Outputs(i)
		u.calcError(ex.Inputs(i), targets, u.modulator+1)
		u.accumulate()
		total += u.outputError(targets)
	}
	factor := 1 / float32(num)
	u.apply(eta, factor, u.modulator+1)
	return total * factor, nil
}
