package uesmann

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/gorgonia/uesmann/example"
	"github.com/gorgonia/uesmann/mlp"
)

// Attempt is the outcome of one independent training run.
type Attempt struct {
	Seed int64
	Net  mlp.Net
	MSE  float32
	Err  error
}

// Attempts trains n independently seeded networks on s, workers at a
// time, and returns the outcomes in seed order. Attempt i runs with
// seed params.Seed+i; every worker gets its own network from build and
// its own deep copy of s, so the runs share no mutable state. If an
// Observer is set it is shared by all attempts and must be safe for
// concurrent use.
func Attempts(n, workers int, build func(seed int64) (mlp.Net, error), s *example.Set, params SGDParams) []Attempt {
	if workers < 1 {
		workers = 1
	}
	results := make([]Attempt, n)

	idx := make(chan int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				seed := params.Seed + int64(i)
				results[i].Seed = seed
				net, err := build(seed)
				if err != nil {
					results[i].Err = err
					continue
				}
				p := params
				p.Seed = seed
				results[i].Net = net
				results[i].MSE, results[i].Err = TrainSGD(net, s.Clone(), p)
			}
		}()
	}
	for i := 0; i < n; i++ {
		idx <- i
	}
	close(idx)
	wg.Wait()
	return results
}

// SuccessRate reports the fraction of attempts whose final error came
// in under threshold. Failed attempts count as unsuccessful.
func SuccessRate(results []Attempt, threshold float32) float64 {
	if len(results) == 0 {
		return 0
	}
	good := 0
	for _, r := range results {
		if r.Err == nil && r.MSE < threshold {
			good++
		}
	}
	return float64(good) / float64(len(results))
}

// SummarizeAttempts reports the mean and standard deviation of the
// errors of the attempts that completed.
func SummarizeAttempts(results []Attempt) (mean, stddev float64) {
	var xs []float64
	for _, r := range results {
		if r.Err == nil {
			xs = append(xs, float64(r.MSE))
		}
	}
	return stat.MeanStdDev(xs, nil)
}
