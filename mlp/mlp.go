// Package mlp implements small dense feed-forward networks trained by
// backpropagation, in four flavours that differ in how a scalar
// modulator signal conditions their behaviour: not at all (the plain
// net), as a multiplicative gain inside the forward and backward
// passes, by blending the outputs of two independently trained
// sub-engines, or as an extra input unit.
//
// Networks are single-threaded: one instance must never be used from
// more than one goroutine at a time. Each instance owns its random
// stream, so training many independent instances concurrently is fine.
package mlp

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/gorgonia/uesmann/example"
)

// NetType tags a network variant. The numeric values appear in
// persisted files, so they are fixed forever.
type NetType int32

const (
	Plain          NetType = 1000 + iota // unmodulated backprop
	OutputBlending                       // two engines, outputs lerped by h
	HInput                               // h fed in as an extra input
	UESMANN                              // multiplicative modulation
)

func (t NetType) String() string {
	switch t {
	case Plain:
		return "plain"
	case OutputBlending:
		return "outputblending"
	case HInput:
		return "hinput"
	case UESMANN:
		return "uesmann"
	}
	return "unknown"
}

// ParseNetType maps a name as printed by String back to its tag.
func ParseNetType(s string) (NetType, error) {
	for _, t := range []NetType{Plain, OutputBlending, HInput, UESMANN} {
		if s == t.String() {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown network type %q", s)
}

// Net is the capability shared by every network variant. Slices
// returned by Outputs and Run alias engine state and are only valid
// until the next Run or TrainBatch.
type Net interface {
	// Type returns the variant tag used in persisted files.
	Type() NetType

	// SetH sets the modulator for subsequent runs and training. The
	// plain network ignores it.
	SetH(h float32)
	// H returns the current modulator.
	H() float32

	// SetInputs copies the visible inputs into the input layer.
	SetInputs(d []float32)
	// Outputs returns the output layer as computed by the last run.
	Outputs() []float32
	// Run performs a forward pass on in and returns the outputs.
	Run(in []float32) []float32

	// TrainBatch runs one gradient step over num contiguous examples
	// starting at start, with learning rate eta. It returns the sum
	// over the batch of the summed squared output errors, divided by
	// num.
	TrainBatch(ex *example.Set, start, num int, eta float32) (float32, error)

	// InitWeights redraws all weights and biases uniformly in [-r, r],
	// where r is initRange if positive and otherwise 1/sqrt(fanIn) per
	// layer (Bishop's rule).
	InitWeights(initRange float32)

	// Seed resets the network's private random stream. Seed the
	// network before InitWeights for reproducible training.
	Seed(seed int64)
	// RNG exposes the network's random stream; the trainer borrows it
	// for shuffling.
	RNG() *rand.Rand

	// Save writes the parameter block into buf, which must hold
	// DataSize values; Load restores from the same layout.
	Save(buf []float32)
	Load(buf []float32)
	// DataSize returns the length of the parameter block.
	DataSize() int

	// LayerCount returns the number of layers including input and
	// output; LayerSize the public size of layer n.
	LayerCount() int
	LayerSize(n int) int
}

// New builds a network of type t with the given layer sizes, input
// layer first. For HInput the sizes are the visible ones; the extra
// modulator unit is added internally.
func New(t NetType, sizes ...int) (Net, error) {
	switch t {
	case Plain:
		return NewBPNet(sizes...)
	case OutputBlending:
		return NewBlendNet(sizes...)
	case HInput:
		return NewHInputNet(sizes...)
	case UESMANN:
		return NewUESNet(sizes...)
	}
	return nil, errors.Errorf("unknown network type %d", int32(t))
}

// FromExamples builds a single-hidden-layer network of type t shaped
// to fit s: input and output layers take their sizes from the set.
func FromExamples(t NetType, s *example.Set, hiddenNodes int) (Net, error) {
	return New(t, s.InputCount(), hiddenNodes, s.OutputCount())
}
