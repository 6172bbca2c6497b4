package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Deterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	var bufA, bufB [16]byte
	_, err := a.Read(bufA[:])
	require.NoError(t, err)
	_, err = b.Read(bufB[:])
	require.NoError(t, err)
	assert.Equal(t, bufA, bufB)
}

func TestNew_DifferentSeedsDiffer(t *testing.T) {
	a, b := New(1), New(2)
	same := 0
	for i := 0; i < 32; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Less(t, same, 32)
}

func TestMix_Streams(t *testing.T) {
	assert.NotEqual(t, Mix(7, 0), Mix(7, 1))
	assert.Equal(t, Mix(7, 3), Mix(7, 3))
}

func TestIntRange(t *testing.T) {
	s := New(5)
	for i := 0; i < 1000; i++ {
		v := s.IntRange(3, 6)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 6)
	}
	assert.Equal(t, 4, s.IntRange(4, 4))
	assert.Equal(t, 9, s.IntRange(9, 2))
	assert.Equal(t, 0, s.IntN(0))
}

func TestPick_RespectsWeights(t *testing.T) {
	s := New(11)
	choices := []Choice[string]{C("two", 70), C("three", 30), C("never", 0)}

	counts := map[string]int{}
	const n = 10000
	for i := 0; i < n; i++ {
		counts[Pick(s, choices)]++
	}

	assert.Zero(t, counts["never"])
	assert.InDelta(t, 0.7, float64(counts["two"])/n, 0.03)
	assert.InDelta(t, 0.3, float64(counts["three"])/n, 0.03)
}

func TestPick_EdgeCases(t *testing.T) {
	s := New(3)

	assert.Equal(t, "", Pick[string](s, nil))

	allZero := []Choice[int]{C(1, 0), C(2, 0)}
	for i := 0; i < 50; i++ {
		v := Pick(s, allZero)
		require.Contains(t, []int{1, 2}, v)
	}

	single := []Choice[int]{C(9, 1)}
	assert.Equal(t, 9, Pick(s, single))
}

func TestUniform(t *testing.T) {
	s := New(8)
	assert.Equal(t, 0, Uniform[int](s, nil))
	items := []string{"P5", "IN", "BO"}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[Uniform(s, items)] = true
	}
	assert.Len(t, seen, 3)
}
