package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	t.Run("Known first values", func(t *testing.T) {
		v, state := Next(12345)
		assert.Equal(t, int64(96382), state)
		assert.InDelta(t, 96382.0/233280.0, v, 1e-12)

		v, state = Next(state)
		assert.Equal(t, int64(3239), state)
		assert.InDelta(t, 3239.0/233280.0, v, 1e-12)
	})

	t.Run("Pure function", func(t *testing.T) {
		v1, s1 := Next(42)
		v2, s2 := Next(42)
		assert.Equal(t, v1, v2)
		assert.Equal(t, s1, s2)
	})
}

func TestRandom(t *testing.T) {
	t.Run("Values stay in range", func(t *testing.T) {
		r := NewRandom(7)
		for i := 0; i < 1000; i++ {
			v := r.Float64()
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	})

	t.Run("Seed is reduced modulo the LCG modulus", func(t *testing.T) {
		a := NewRandom(12345)
		b := NewRandom(12345 + lcgModulus)
		for i := 0; i < 50; i++ {
			assert.Equal(t, a.Float64(), b.Float64())
		}
	})

	t.Run("Negative seed", func(t *testing.T) {
		r := NewRandom(-5)
		want, _ := Next(lcgModulus - 5)
		assert.Equal(t, want, r.Float64())
	})

	t.Run("Intn consumes a draw for empty ranges", func(t *testing.T) {
		a := NewRandom(99)
		b := NewRandom(99)

		assert.Equal(t, 0, a.Intn(0))
		b.Float64()
		assert.Equal(t, b.Float64(), a.Float64())
	})

	t.Run("Intn bounds", func(t *testing.T) {
		r := NewRandom(3)
		for i := 0; i < 1000; i++ {
			n := r.Intn(7)
			assert.GreaterOrEqual(t, n, 0)
			assert.Less(t, n, 7)
		}
	})

	t.Run("Shuffle is a permutation", func(t *testing.T) {
		r := NewRandom(2024)
		items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
		r.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
		assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, items)
	})
}
