package mlp

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/gorgonia/uesmann/example"
)

// BlendNet is the output-blending network: two complete plain engines,
// one trained only on examples whose modulator falls below the 0.5
// boundary and one trained only on the rest. Running feeds both
// engines the same input and linearly interpolates their output
// vectors by the modulator.
type BlendNet struct {
	net0 *BPNet // trained on h < 0.5
	net1 *BPNet // trained on h >= 0.5

	modulator float32
	interp    []float32

	// lastError carries the running error average over the most recent
	// low/high call pair; -1 means no call has happened yet.
	lastError float32

	rng *rand.Rand
}

// NewBlendNet builds an output-blending network; both sub-engines get
// the given layer sizes.
func NewBlendNet(sizes ...int) (*BlendNet, error) {
	n0, err := newBPNet(Plain, 0, sizes)
	if err != nil {
		return nil, err
	}
	n1, err := newBPNet(Plain, 0, sizes)
	if err != nil {
		return nil, err
	}
	return &BlendNet{
		net0:      n0,
		net1:      n1,
		interp:    make([]float32, sizes[len(sizes)-1]),
		lastError: -1,
		rng:       rand.New(rand.NewSource(0)),
	}, nil
}

// Net0 returns the sub-engine trained on low-modulator examples.
func (n *BlendNet) Net0() *BPNet { return n.net0 }

// Net1 returns the sub-engine trained on high-modulator examples.
func (n *BlendNet) Net1() *BPNet { return n.net1 }

// Type returns the variant tag used in persisted files.
func (n *BlendNet) Type() NetType { return OutputBlending }

// SetH sets the modulator used for blending and training routing.
func (n *BlendNet) SetH(h float32) { n.modulator = h }

// H returns the current modulator.
func (n *BlendNet) H() float32 { return n.modulator }

// LayerCount returns the sub-engines' layer count.
func (n *BlendNet) LayerCount() int { return n.net0.LayerCount() }

// LayerSize returns the sub-engines' size of layer l.
func (n *BlendNet) LayerSize(l int) int { return n.net0.LayerSize(l) }

// SetInputs feeds both sub-engines.
func (n *BlendNet) SetInputs(d []float32) {
	n.net0.SetInputs(d)
	n.net1.SetInputs(d)
}

// Outputs returns the blended output vector built by the last Run.
func (n *BlendNet) Outputs() []float32 { return n.interp }

// Run forwards in through both sub-engines and blends their outputs:
// out[i] = h*o1[i] + (1-h)*o0[i].
func (n *BlendNet) Run(in []float32) []float32 {
	n.SetInputs(in)
	n.net0.forward(1)
	n.net1.forward(1)
	o0 := n.net0.Outputs()
	o1 := n.net1.Outputs()
	h := n.modulator
	for i := range n.interp {
		n.interp[i] = h*o1[i] + (1-h)*o0[i]
	}
	return n.interp
}

// TrainBatch trains on exactly one example, routed to the sub-engine
// matching the example's modulator side; batches of more than one are
// rejected. Because each call updates only one side, the reported
// error is a running average over the most recent low/high pair: the
// very first call returns its own error unaveraged, later low-side
// calls return the last completed pair's mean, and each high-side call
// completes a pair and returns the fresh mean.
func (n *BlendNet) TrainBatch(ex *example.Set, start, num int, eta float32) (float32, error) {
	if num != 1 {
		return 0, errors.Errorf("output blending trains single examples only, got a batch of %d", num)
	}
	hzero := ex.H(start) < 0.5
	sub := n.net1
	if hzero {
		sub = n.net0
	}
	e, err := sub.TrainBatch(ex, start, 1, eta)
	if err != nil {
		return 0, err
	}

	var rv float32
	switch {
	case n.lastError < 0:
		n.lastError = e
		rv = e
	case hzero:
		rv = n.lastError
	default:
		n.lastError = (e + n.lastError) * 0.5
		rv = n.lastError
	}
	return rv, nil
}

// InitWeights reinitialises both sub-engines.
func (n *BlendNet) InitWeights(initRange float32) {
	n.net0.InitWeights(initRange)
	n.net1.InitWeights(initRange)
}

// Seed reseeds the blend's own stream and derives an independent
// stream for each sub-engine.
func (n *BlendNet) Seed(seed int64) {
	n.rng = rand.New(rand.NewSource(seed))
	n.net0.Seed(seed)
	n.net1.Seed(seed + 1)
}

// RNG exposes the network's random stream.
func (n *BlendNet) RNG() *rand.Rand { return n.rng }

// DataSize is the two sub-engines' parameter blocks back to back.
func (n *BlendNet) DataSize() int { return n.net0.DataSize() * 2 }

// Save writes net0's parameter block followed by net1's.
func (n *BlendNet) Save(buf []float32) {
	half := n.net0.DataSize()
	n.net0.Save(buf[:half])
	n.net1.Save(buf[half:])
}

// Load restores both sub-engines from a buffer written by Save.
func (n *BlendNet) Load(buf []float32) {
	half := n.net0.DataSize()
	n.net0.Load(buf[:half])
	n.net1.Load(buf[half:])
}
