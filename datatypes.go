package uesmann

import (
	"github.com/pkg/errors"

	"github.com/gorgonia/uesmann/example"
	"github.com/gorgonia/uesmann/mlp"
)

// SGDParams configures TrainSGD. The zero value trains for zero
// iterations; start from DefaultSGDParams.
type SGDParams struct {
	Eta        float32             // learning rate
	Iterations int                 // single-example training steps
	Shuffle    example.ShuffleMode // reshuffle mode applied at each epoch start

	// Cross-validation: CVSlices slices of CVPerSlice examples are held
	// out from the end of the set and visited round-robin, one slice
	// every CVInterval iterations. Both counts zero means no held-out
	// data.
	CVSlices        int
	CVPerSlice      int
	CVInterval      int
	CVShuffleOnWrap bool // reshuffle the held-out view when the slice cursor wraps

	StoreBest        bool // keep the best parameters seen and restore them at the end
	SelectBestWithCV bool // judge "best" only at cross-validation checkpoints

	InitRange float32 // initial weight range [-r, r]; non-positive means Bishop's rule
	Seed      int64   // seeds the network before initialisation

	// extensions
	Observer Observer
}

// DefaultSGDParams returns the baseline configuration: alternating
// shuffle, Bishop's-rule initialisation, no held-out data, seed 0.
func DefaultSGDParams(eta float32, iterations int) SGDParams {
	return SGDParams{
		Eta:        eta,
		Iterations: iterations,
		Shuffle:    example.ShuffleAlternate,
		InitRange:  -1,
	}
}

func (p SGDParams) check(count int) error {
	if count < 1 {
		return errors.Errorf("training needs at least one example")
	}
	if p.Iterations < 0 {
		return errors.Errorf("negative iteration count %d", p.Iterations)
	}
	if p.CVSlices < 0 || p.CVPerSlice < 0 {
		return errors.Errorf("negative cross-validation layout: %d slices of %d examples", p.CVSlices, p.CVPerSlice)
	}
	if (p.CVSlices == 0) != (p.CVPerSlice == 0) {
		return errors.Errorf("incomplete cross-validation layout: %d slices of %d examples", p.CVSlices, p.CVPerSlice)
	}
	nCV := p.CVSlices * p.CVPerSlice
	if nCV >= count {
		return errors.Errorf("%d cross-validation examples leave nothing to train on (set has %d)", nCV, count)
	}
	if nCV > 0 && p.CVInterval < 1 {
		return errors.Errorf("cross-validation interval must be at least 1, got %d", p.CVInterval)
	}
	if p.SelectBestWithCV && nCV == 0 {
		return errors.Errorf("cannot select the best network by cross-validation without a cross-validation set")
	}
	return nil
}

// Checkpoint is a snapshot of training progress, produced at every
// cross-validation checkpoint.
type Checkpoint struct {
	Iteration  int     // training iteration the checkpoint ran at
	Slice      int     // held-out slice that was evaluated
	TrainError float32 // error of the last single-example training step
	CVError    float32 // mean squared error over the slice
	Best       bool    // parameters were snapshotted at this checkpoint
	Net        mlp.Net // the live network; only valid during Encode
}

// Observer consumes training checkpoints as they happen.
//
// An example Observer is the weightmap GIF encoder. Another example
// would be a logger. An Encode error aborts training; Flush is the
// caller's job once training is done.
type Observer interface {
	Encode(c Checkpoint) error
	Flush() error
}
