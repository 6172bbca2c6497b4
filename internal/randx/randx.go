// Package randx provides seeded random streams and weighted selection.
package randx

import (
	"encoding/binary"
	"math/rand/v2"
)

// Source is a deterministic random stream. It satisfies io.Reader so it
// can feed byte-oriented generators.
type Source struct {
	chacha *rand.ChaCha8
	rng    *rand.Rand
}

// New creates a Source seeded from a single 64-bit value.
func New(seed uint64) *Source {
	var key [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(key[i*8:], Mix(seed, uint64(i)))
	}
	c := rand.NewChaCha8(key)
	return &Source{chacha: c, rng: rand.New(c)}
}

// Mix derives an independent 64-bit seed from a base seed and a stream
// index using the splitmix64 finalizer.
func Mix(seed, stream uint64) uint64 {
	z := seed + (stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Read fills p with random bytes. It never fails.
func (s *Source) Read(p []byte) (int, error) {
	return s.chacha.Read(p)
}

// Uint64 returns a random 64-bit value.
func (s *Source) Uint64() uint64 { return s.rng.Uint64() }

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 { return s.rng.Float64() }

// IntN returns a value in [0, n). It returns 0 when n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// IntRange returns a value in [lo, hi]. If hi < lo it returns lo.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.rng.Float64() < p
}

// Shuffle permutes n elements using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
