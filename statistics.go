package uesmann

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Statistics records the error curve of one training run: a row per
// cross-validation checkpoint. It implements Observer, so it can be
// dropped straight into SGDParams.
type Statistics struct {
	Name       string
	Iterations []int
	Slices     []int
	TrainErrs  []float32
	CVErrs     []float32
}

func NewStatistics(name string) *Statistics {
	return &Statistics{
		Name:       name,
		Iterations: make([]int, 0, 64),
		Slices:     make([]int, 0, 64),
		TrainErrs:  make([]float32, 0, 64),
		CVErrs:     make([]float32, 0, 64),
	}
}

// Encode appends one checkpoint to the series.
func (s *Statistics) Encode(c Checkpoint) error {
	s.Iterations = append(s.Iterations, c.Iteration)
	s.Slices = append(s.Slices, c.Slice)
	s.TrainErrs = append(s.TrainErrs, c.TrainError)
	s.CVErrs = append(s.CVErrs, c.CVError)
	return nil
}

// Flush is a no-op; the series accumulates in memory.
func (s *Statistics) Flush() error { return nil }

// Len returns the number of checkpoints recorded so far.
func (s *Statistics) Len() int { return len(s.Iterations) }

// Dump writes the series as CSV rows of iteration, slice, training
// error and cross-validation error.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"iteration", "slice", "trainerror", "cverror"}); err != nil {
		return err
	}
	var records [][]string
	for i := range s.Iterations {
		records = append(records, []string{
			strconv.Itoa(s.Iterations[i]),
			strconv.Itoa(s.Slices[i]),
			strconv.FormatFloat(float64(s.TrainErrs[i]), 'f', 6, 32),
			strconv.FormatFloat(float64(s.CVErrs[i]), 'f', 6, 32),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// Summary reports the mean, standard deviation and minimum of the
// cross-validation error series.
func (s *Statistics) Summary() (mean, stddev, min float64) {
	xs := make([]float64, len(s.CVErrs))
	min = math.Inf(1)
	for i, v := range s.CVErrs {
		xs[i] = float64(v)
		if xs[i] < min {
			min = xs[i]
		}
	}
	mean, stddev = stat.MeanStdDev(xs, nil)
	return mean, stddev, min
}
