package example

import "math/rand"

// ShuffleMode selects how Shuffle arranges examples.
type ShuffleMode int

const (
	// ShuffleNone is a plain Fisher-Yates shuffle with no structural
	// constraint on the result.
	ShuffleNone ShuffleMode = iota
	// ShuffleStride shuffles blocks of HLevels consecutive examples,
	// keeping the order within each block.
	ShuffleStride
	// ShuffleAlternate shuffles and then rearranges the result so the
	// modulator buckets cycle 0,1,..,HLevels-1 repeatedly.
	ShuffleAlternate
)

// Shuffle permutes the set's example ordering in place using rng. Only
// the indirection table moves; the backing buffer never changes, so
// other views of the same buffer are unaffected.
func (s *Set) Shuffle(rng *rand.Rand, mode ShuffleMode) {
	switch mode {
	case ShuffleStride:
		s.shuffleStride(rng)
	case ShuffleAlternate:
		s.shuffle(rng)
		s.alternate()
	default:
		s.shuffle(rng)
	}
}

func (s *Set) shuffle(rng *rand.Rand) {
	for i := len(s.x) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		s.x[i], s.x[j] = s.x[j], s.x[i]
	}
}

// shuffleStride is Fisher-Yates at block granularity: blocks of hLevels
// consecutive examples move as units and keep their internal order. A
// trailing partial block stays where it is.
func (s *Set) shuffleStride(rng *rand.Rand) {
	bs := s.hLevels
	if bs < 1 {
		bs = 1
	}
	nb := len(s.x) / bs
	for i := nb - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		for k := 0; k < bs; k++ {
			s.x[i*bs+k], s.x[j*bs+k] = s.x[j*bs+k], s.x[i*bs+k]
		}
	}
}

// alternate walks the shuffled set and repairs it so the modulator
// buckets cycle 0,1,..,hLevels-1. Each position holding the wrong
// bucket gets the first later example with the right one swapped in;
// if no such example remains the repair stops, leaving the tail as the
// shuffle made it.
func (s *Set) alternate() {
	cycle := s.hLevels
	if cycle < 2 {
		return
	}
	for i := 0; i < len(s.x); i++ {
		want := i % cycle
		if s.Level(i)%cycle == want {
			continue
		}
		j := i + 1
		for j < len(s.x) && s.Level(j)%cycle != want {
			j++
		}
		if j >= len(s.x) {
			return
		}
		s.x[i], s.x[j] = s.x[j], s.x[i]
	}
}
