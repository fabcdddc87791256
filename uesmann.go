// Package uesmann trains modulator-conditioned feed-forward networks.
// It is the top level of the repository: the mlp package supplies the
// network variants, the example package the training data, and this
// package the stochastic-gradient-descent driver, checkpoint
// observers and multi-attempt orchestration around them.
package uesmann

import (
	"github.com/pkg/errors"

	"github.com/gorgonia/uesmann/example"
	"github.com/gorgonia/uesmann/mlp"
)

// TrainSGD trains n on s by single-example stochastic gradient
// descent, reshuffling the training portion at every epoch boundary.
// When cross-validation is configured the trailing examples of s are
// held out and evaluated slice by slice; when best-network retention
// is on, the best parameters seen are restored into n before
// returning. The returned value is n's mean squared error over the
// held-out view if there is one, otherwise over all of s.
func TrainSGD(n mlp.Net, s *example.Set, params SGDParams) (float32, error) {
	if err := params.check(s.Count()); err != nil {
		return 0, err
	}

	nCV := params.CVSlices * params.CVPerSlice
	nTraining := s.Count() - nCV

	train := s
	var cv *example.Set
	if nCV > 0 {
		var err error
		if train, err = s.Subset(0, nTraining); err != nil {
			return 0, err
		}
		if cv, err = s.Subset(nTraining, nCV); err != nil {
			return 0, err
		}
	}

	n.Seed(params.Seed)
	n.InitWeights(params.InitRange)

	// loop state: best-snapshot buffer, rogue-initialised running
	// minimum, the round-robin slice cursor and the interval countdown
	var best []float32
	minError := float32(-1)
	cvSlice := 0
	countdown := params.CVInterval

	for i := 0; i < params.Iterations; i++ {
		exampleIndex := i % nTraining
		if exampleIndex == 0 {
			train.Shuffle(n.RNG(), params.Shuffle)
		}
		e, err := n.TrainBatch(train, exampleIndex, 1, params.Eta)
		if err != nil {
			return 0, err
		}

		improved := false
		if params.StoreBest && !params.SelectBestWithCV && (minError < 0 || e < minError) {
			minError = e
			best = snapshot(n, best)
			improved = true
		}

		if cv == nil {
			continue
		}
		countdown--
		if countdown > 0 {
			continue
		}
		countdown = params.CVInterval

		sl, err := cv.Subset(cvSlice*params.CVPerSlice, params.CVPerSlice)
		if err != nil {
			return 0, err
		}
		cvError := MSE(n, sl)

		// the snapshot decision at a checkpoint still compares
		// training error, not the slice error just computed
		if params.StoreBest && params.SelectBestWithCV && (minError < 0 || e < minError) {
			minError = e
			best = snapshot(n, best)
			improved = true
		}

		if params.Observer != nil {
			ck := Checkpoint{
				Iteration:  i,
				Slice:      cvSlice,
				TrainError: e,
				CVError:    cvError,
				Best:       improved,
				Net:        n,
			}
			if err := params.Observer.Encode(ck); err != nil {
				return 0, errors.Wrap(err, "observer failed")
			}
		}

		cvSlice++
		if cvSlice == params.CVSlices {
			cvSlice = 0
			if params.CVShuffleOnWrap {
				cv.Shuffle(n.RNG(), params.Shuffle)
			}
		}
	}

	if best != nil {
		n.Load(best)
	}

	if cv != nil {
		return MSE(n, cv), nil
	}
	return MSE(n, s), nil
}

func snapshot(n mlp.Net, buf []float32) []float32 {
	if buf == nil {
		buf = make([]float32, n.DataSize())
	}
	n.Save(buf)
	return buf
}

// MSE runs every example in s through n at that example's modulator
// level and returns the total squared output error divided by
// count times outputCount.
func MSE(n mlp.Net, s *example.Set) float32 {
	var total float32
	for i := 0; i < s.Count(); i++ {
		n.SetH(s.H(i))
		outs := n.Run(s.Inputs(i))
		targets := s.Outputs(i)
		for j, o := range outs {
			d := o - targets[j]
			total += d * d
		}
	}
	return total / float32(s.Count()*s.OutputCount())
}
