package example

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestShuffleNone(t *testing.T) {
	assert := assert.New(t)
	s := newNumbered(10, 5, 2, 10)
	rng := rand.New(rand.NewSource(1))
	s.Shuffle(rng, ShuffleNone)

	// an example's inputs, outputs and modulator move together
	for i := 0; i < s.Count(); i++ {
		first := s.Inputs(i)[0]
		assert.Equal(first*2, s.Outputs(i)[0])
		assert.Equal(first*100, s.H(i))
	}

	// and every example is still present exactly once
	got := make([]float32, s.Count())
	for i := range got {
		got[i] = s.Inputs(i)[0]
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []float32{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("shuffle lost examples (-want +got):\n%s", diff)
	}
}

func TestShuffleStride(t *testing.T) {
	assert := assert.New(t)

	// 8 blocks of 4; each input encodes (block, position) as 10b+p
	const levels = 4
	s := New(32, 1, 1, levels)
	for i := 0; i < 32; i++ {
		s.Inputs(i)[0] = float32(10*(i/levels) + i%levels)
		s.SetH(i, float32(i%levels))
	}
	rng := rand.New(rand.NewSource(42))
	s.Shuffle(rng, ShuffleStride)

	seen := make(map[int]bool)
	for b := 0; b < 8; b++ {
		block := int(s.Inputs(b*levels)[0]) / 10
		assert.False(seen[block], "block %d appears twice", block)
		seen[block] = true
		for k := 0; k < levels; k++ {
			v := int(s.Inputs(b*levels + k)[0])
			assert.Equal(block, v/10, "position %d escaped its block", b*levels+k)
			assert.Equal(k, v%10, "order broken inside block %d", block)
		}
	}
	assert.Len(seen, 8)
}

func TestShuffleAlternate(t *testing.T) {
	// a set with equally many examples of each level must come out
	// cycling 0,1,2,3 strictly
	const levels = 4
	s := New(40, 1, 1, levels)
	for i := 0; i < 40; i++ {
		s.SetH(i, float32(i%levels))
	}
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		s.Shuffle(rng, ShuffleAlternate)
		for i := 0; i < s.Count(); i++ {
			if got := s.Level(i); got != i%levels {
				t.Fatalf("trial %d: level at %d = %d, want %d", trial, i, got, i%levels)
			}
		}
	}
}

func TestShuffleViewIndependence(t *testing.T) {
	assert := assert.New(t)
	s := newNumbered(10, 5, 2, 10)
	sub, err := s.Subset(0, 10)
	assert.NoError(err)

	rng := rand.New(rand.NewSource(3))
	sub.Shuffle(rng, ShuffleNone)

	// the parent's ordering does not move when a view shuffles
	for i := 0; i < 10; i++ {
		assert.Equal(float32(10*i), s.Inputs(i)[0])
	}
}
