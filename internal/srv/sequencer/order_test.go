package sequencer

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPermutation(t *testing.T, indexes []int, size int) {
	t.Helper()
	sorted := append([]int(nil), indexes...)
	sort.Ints(sorted)
	require.Len(t, sorted, size)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}
}

func TestOrder_IsPermutation(t *testing.T) {
	for _, size := range []int{1, 2, 3, 10, 257} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				order := NewOrder(size, rand.New(rand.NewSource(seed)))
				assertPermutation(t, order.Indexes(), size)
				assert.Equal(t, 0, order.Cursor())
			}
		})
	}
}

func TestOrder_CycleAndReshuffle(t *testing.T) {
	order := NewOrder(4, rand.New(rand.NewSource(1)))

	var seen []int
	for !order.Exhausted() {
		seen = append(seen, order.Current())
		order.Advance()
	}
	assertPermutation(t, seen, 4)
	assert.Equal(t, 4, order.Cursor())

	order.Reshuffle(4)
	assert.False(t, order.Exhausted())
	assert.Equal(t, 0, order.Cursor())
	assertPermutation(t, order.Indexes(), 4)
}

func TestOrder_Unbiased(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	counts := map[string]int{}
	const rounds = 6000
	for i := 0; i < rounds; i++ {
		counts[fmt.Sprint(NewOrder(3, r).Indexes())]++
	}

	require.Len(t, counts, 6, "every permutation of 3 items must show up")
	for permutation, count := range counts {
		assert.InDelta(t, rounds/6, count, 200, permutation)
	}
}
