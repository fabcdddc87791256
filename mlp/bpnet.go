package mlp

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"

	"github.com/gorgonia/uesmann/example"
)

// sigmoid is the logistic activation used by every layer.
func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// BPNet is the dense backpropagation engine and, on its own, the plain
// unmodulated network. The modulated variants are built out of it.
//
// Weights live in square blocks of largest² per "to" layer, indexed
// [to + largest*from]; only the true layerSizes[l] × layerSizes[l-1]
// region of each block is meaningful, and layer 0's block and biases
// stay zero. The square blocks waste some space but keep indexing and
// the serialized layout uniform.
type BPNet struct {
	typ     NetType
	sizes   []int
	largest int

	weights [][]float32
	biases  [][]float32
	outputs [][]float32
	errors  [][]float32
	gradW   [][]float32
	gradB   [][]float32

	// hidden counts trailing input units driven by the modulator
	// rather than by SetInputs: 1 for the h-as-input variant,
	// otherwise 0.
	hidden    int
	modulator float32

	rng *rand.Rand
}

// NewBPNet builds a plain network with the given layer sizes, input
// layer first. All parameters start at zero; call InitWeights before
// training.
func NewBPNet(sizes ...int) (*BPNet, error) {
	return newBPNet(Plain, 0, sizes)
}

func newBPNet(typ NetType, hidden int, sizes []int) (*BPNet, error) {
	if len(sizes) < 2 {
		return nil, errors.Errorf("a network needs at least an input and an output layer, got %d layers", len(sizes))
	}
	b := &BPNet{
		typ:    typ,
		sizes:  make([]int, len(sizes)),
		hidden: hidden,
		rng:    rand.New(rand.NewSource(0)),
	}
	copy(b.sizes, sizes)
	for _, n := range sizes {
		if n < 1 {
			return nil, errors.Errorf("every layer needs at least one node, got sizes %v", sizes)
		}
		if n > b.largest {
			b.largest = n
		}
	}
	nl := len(sizes)
	b.weights = make([][]float32, nl)
	b.biases = make([][]float32, nl)
	b.outputs = make([][]float32, nl)
	b.errors = make([][]float32, nl)
	b.gradW = make([][]float32, nl)
	b.gradB = make([][]float32, nl)
	for l, n := range b.sizes {
		b.weights[l] = make([]float32, b.largest*b.largest)
		b.gradW[l] = make([]float32, b.largest*b.largest)
		b.biases[l] = make([]float32, n)
		b.gradB[l] = make([]float32, n)
		b.outputs[l] = make([]float32, n)
		b.errors[l] = make([]float32, n)
	}
	return b, nil
}

// Type returns the variant tag used in persisted files.
func (b *BPNet) Type() NetType { return b.typ }

// LayerCount returns the number of layers including input and output.
func (b *BPNet) LayerCount() int { return len(b.sizes) }

// LayerSize returns the public size of layer n. When the modulator
// rides in the input layer, layer 0 excludes that hidden unit.
func (b *BPNet) LayerSize(n int) int {
	if n == 0 {
		return b.sizes[0] - b.hidden
	}
	return b.sizes[n]
}

// SetH sets the modulator. The plain network ignores it.
func (b *BPNet) SetH(h float32) {
	if b.hidden > 0 {
		b.modulator = h
	}
}

// H returns the current modulator, always 0 for the plain network.
func (b *BPNet) H() float32 {
	if b.hidden > 0 {
		return b.modulator
	}
	return 0
}

// SetInputs copies d into the input layer. A net carrying the
// modulator as an extra input takes only the visible values from d and
// writes the current modulator into the final unit itself.
func (b *BPNet) SetInputs(d []float32) {
	vis := b.sizes[0] - b.hidden
	copy(b.outputs[0][:vis], d[:vis])
	if b.hidden > 0 {
		b.outputs[0][b.sizes[0]-1] = b.modulator
	}
}

// Outputs returns the output layer's activations from the last run.
func (b *BPNet) Outputs() []float32 { return b.outputs[len(b.sizes)-1] }

// Run performs a forward pass on in and returns the outputs.
func (b *BPNet) Run(in []float32) []float32 {
	b.SetInputs(in)
	b.forward(1)
	return b.Outputs()
}

// forward runs the net forward with each node's weighted sum scaled by
// hfactor before the bias is added. The unmodulated pass uses
// hfactor 1, which leaves the sums untouched.
func (b *BPNet) forward(hfactor float32) {
	for l := 1; l < len(b.sizes); l++ {
		w := b.weights[l]
		prev := b.outputs[l-1]
		for j := 0; j < b.sizes[l]; j++ {
			var v float32
			for k := 0; k < b.sizes[l-1]; k++ {
				v += w[j+b.largest*k] * prev[k]
			}
			b.outputs[l][j] = sigmoid(v*hfactor + b.biases[l][j])
		}
	}
}

// calcError runs one example forward and fills in the per-node error
// terms, output layer first, then each earlier layer back to front.
// Non-output deltas pick up the modulation factor.
func (b *BPNet) calcError(in, targets []float32, hfactor float32) {
	b.SetInputs(in)
	b.forward(hfactor)

	ol := len(b.sizes) - 1
	for i, o := range b.outputs[ol] {
		b.errors[ol][i] = o * (1 - o) * (o - targets[i])
	}
	for l := ol - 1; l >= 1; l-- {
		w := b.weights[l+1]
		for j := 0; j < b.sizes[l]; j++ {
			var e float32
			for i := 0; i < b.sizes[l+1]; i++ {
				e += b.errors[l+1][i] * w[i+b.largest*j]
			}
			o := b.outputs[l][j]
			b.errors[l][j] = e * hfactor * o * (1 - o)
		}
	}
}

// accumulate folds the current example's gradients into the batch
// accumulators.
func (b *BPNet) accumulate() {
	for l := 1; l < len(b.sizes); l++ {
		gw := b.gradW[l]
		prev := b.outputs[l-1]
		for i := 0; i < b.sizes[l]; i++ {
			e := b.errors[l][i]
			for j := 0; j < b.sizes[l-1]; j++ {
				gw[i+b.largest*j] += e * prev[j]
			}
			b.gradB[l][i] += e
		}
	}
}

// outputError returns the summed squared output error against targets
// for the example most recently passed through calcError.
func (b *BPNet) outputError(targets []float32) float32 {
	var total float32
	for i, o := range b.outputs[len(b.sizes)-1] {
		e := o - targets[i]
		total += e * e
	}
	return total
}

func (b *BPNet) zeroGrads() {
	for l := range b.gradW {
		gw := b.gradW[l]
		for i := range gw {
			gw[i] = 0
		}
		gb := b.gradB[l]
		for i := range gb {
			gb[i] = 0
		}
	}
}

// apply folds the accumulated gradients into the weights and biases.
// factor is 1/batchSize; hfactor additionally scales the weight step
// for the multiplicative variant and never touches the bias step. The
// unused parts of each square block hold zero gradients, so scaling
// whole blocks is safe.
func (b *BPNet) apply(eta, factor, hfactor float32) {
	kw := eta * factor * hfactor
	kb := eta * factor
	for l := 1; l < len(b.sizes); l++ {
		vecf32.Scale(b.gradW[l], kw)
		vecf32.Sub(b.weights[l], b.gradW[l])
		vecf32.Scale(b.gradB[l], kb)
		vecf32.Sub(b.biases[l], b.gradB[l])
	}
}

// TrainBatch runs one gradient step over num contiguous examples
// starting at start and returns the batch's summed squared output
// error divided by num. The returned error is always nil.
func (b *BPNet) TrainBatch(ex *example.Set, start, num int, eta float32) (float32, error) {
	b.zeroGrads()
	var total float32
	for n := 0; n < num; n++ {
		i := start + n
		b.SetH(ex.H(i))
		targets := ex.Outputs(i)
		b.calcError(ex.Inputs(i), targets, 1)
		b.accumulate()
		total += b.outputError(targets)
	}
	factor := 1 / float32(num)
	b.apply(eta, factor, 1)
	return total * factor, nil
}

// InitWeights redraws every weight and bias uniformly in [-r, r]: r is
// initRange when positive, otherwise 1/sqrt(fanIn) per non-input layer
// after Bishop. The whole of each square block is drawn, then the
// input layer, which has no incoming connections, is forced back to
// zero.
func (b *BPNet) InitWeights(initRange float32) {
	for l := range b.sizes {
		r := float32(0.1)
		if l > 0 {
			if initRange > 0 {
				r = initRange
			} else {
				r = 1 / math32.Sqrt(float32(b.sizes[l-1]))
			}
		}
		for j := range b.biases[l] {
			b.biases[l][j] = b.uniform(-r, r)
		}
		for j := range b.weights[l] {
			b.weights[l][j] = b.uniform(-r, r)
		}
	}
	for j := range b.biases[0] {
		b.biases[0][j] = 0
	}
	for j := range b.weights[0] {
		b.weights[0][j] = 0
	}
}

// uniform draws from [mn, mx) on the network's own stream.
func (b *BPNet) uniform(mn, mx float32) float32 {
	return b.rng.Float32()*(mx-mn) + mn
}

// Seed resets the network's private random stream.
func (b *BPNet) Seed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// RNG exposes the network's random stream.
func (b *BPNet) RNG() *rand.Rand { return b.rng }

// DataSize returns the number of values Save writes: per layer, one
// bias per node plus the node's true incoming weights.
func (b *BPNet) DataSize() int {
	total, pc := 0, 0
	for _, c := range b.sizes {
		total += c * (1 + pc)
		pc = c
	}
	return total
}

// Save writes the parameter block into buf: layer-major, node-minor,
// each node as its bias followed by its true incoming weights. buf
// must hold DataSize values. This layout is the persisted wire format
// and cannot change.
func (b *BPNet) Save(buf []float32) {
	g := 0
	for l := 0; l < len(b.sizes); l++ {
		for j := 0; j < b.sizes[l]; j++ {
			buf[g] = b.biases[l][j]
			g++
			if l > 0 {
				for k := 0; k < b.sizes[l-1]; k++ {
					buf[g] = b.weights[l][j+b.largest*k]
					g++
				}
			}
		}
	}
}

// Load restores the parameter block from a buffer laid out as Save
// writes it.
func (b *BPNet) Load(buf []float32) {
	g := 0
	for l := 0; l < len(b.sizes); l++ {
		for j := 0; j < b.sizes[l]; j++ {
			b.biases[l][j] = buf[g]
			g++
			if l > 0 {
				for k := 0; k < b.sizes[l-1]; k++ {
					b.weights[l][j+b.largest*k] = buf[g]
					g++
				}
			}
		}
	}
}
