package generate

import (
	"math"
	"math/rand"
	"time"
)

// Source draws uniformly distributed integers.
type Source interface {
	// IntRange returns an integer in [lo, hi]. Callers guarantee lo <= hi.
	IntRange(lo, hi int) int
}

type randSource struct {
	rng *rand.Rand
}

// NewSource returns a pseudo-random Source. A zero seed seeds from the clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) IntRange(lo, hi int) int {
	if span := hi - lo + 1; span > 0 {
		return lo + s.rng.Intn(span)
	}

	// The span does not fit in an int. Draw in uint64 space, where the
	// wrapped sum maps back onto [lo, hi].
	n := uint64(hi) - uint64(lo) + 1
	if n == 0 {
		return int(s.rng.Uint64())
	}

	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		if v := s.rng.Uint64(); v < limit {
			return int(uint64(lo) + v%n)
		}
	}
}
