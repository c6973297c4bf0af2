package sequencer

import "math/rand"

// Order is a shuffled permutation of the catalog indexes with a read cursor.
type Order struct {
	indexes []int
	cursor  int
	rand    *rand.Rand
}

func NewOrder(size int, r *rand.Rand) *Order {
	o := &Order{rand: r}
	o.Reshuffle(size)
	return o
}

// Reshuffle replaces the whole permutation and rewinds the cursor.
func (o *Order) Reshuffle(size int) {
	o.indexes = make([]int, size)
	for i := range o.indexes {
		o.indexes[i] = i
	}
	o.rand.Shuffle(len(o.indexes), func(i, j int) {
		o.indexes[i], o.indexes[j] = o.indexes[j], o.indexes[i]
	})
	o.cursor = 0
}

func (o *Order) Exhausted() bool {
	return o.cursor >= len(o.indexes)
}

// Current returns the catalog index under the cursor, the order must not be exhausted.
func (o *Order) Current() int {
	return o.indexes[o.cursor]
}

func (o *Order) Advance() {
	o.cursor++
}

func (o *Order) Cursor() int {
	return o.cursor
}

func (o *Order) Indexes() []int {
	return append([]int(nil), o.indexes...)
}
