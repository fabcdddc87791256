package uesmann

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

var _ Observer = &Statistics{}

func TestStatisticsEncode(t *testing.T) {
	assert := assert.New(t)
	s := NewStatistics("run")
	for i, c := range []Checkpoint{
		{Iteration: 9, Slice: 0, TrainError: 0.5, CVError: 0.25},
		{Iteration: 19, Slice: 1, TrainError: 0.4, CVError: 0.5, Best: true},
		{Iteration: 29, Slice: 0, TrainError: 0.3, CVError: 0.75},
	} {
		assert.NoError(s.Encode(c), "checkpoint %d", i)
	}
	assert.NoError(s.Flush())

	assert.Equal(3, s.Len())
	assert.Equal([]int{9, 19, 29}, s.Iterations)
	assert.Equal([]int{0, 1, 0}, s.Slices)
	assert.Equal([]float32{0.5, 0.4, 0.3}, s.TrainErrs)
	assert.Equal([]float32{0.25, 0.5, 0.75}, s.CVErrs)
}

func TestStatisticsDump(t *testing.T) {
	assert := assert.New(t)
	s := NewStatistics("run")
	s.Encode(Checkpoint{Iteration: 9, Slice: 0, TrainError: 0.5, CVError: 0.25})
	s.Encode(Checkpoint{Iteration: 19, Slice: 1, TrainError: 0.25, CVError: 0.125})

	path := filepath.Join(t.TempDir(), "stats.csv")
	assert.NoError(s.Dump(path))

	f, err := os.Open(path)
	assert.NoError(err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	assert.NoError(err)

	assert.Equal(3, len(records))
	assert.Equal([]string{"iteration", "slice", "trainerror", "cverror"}, records[0])
	assert.Equal([]string{"9", "0", "0.500000", "0.250000"}, records[1])
	assert.Equal([]string{"19", "1", "0.250000", "0.125000"}, records[2])
}

func TestStatisticsSummary(t *testing.T) {
	assert := assert.New(t)
	s := NewStatistics("run")
	for i, cv := range []float32{1, 2, 3} {
		s.Encode(Checkpoint{Iteration: i, CVError: cv})
	}
	mean, stddev, min := s.Summary()
	assert.Equal(2.0, mean)
	assert.Equal(1.0, stddev)
	assert.Equal(1.0, min)
}
