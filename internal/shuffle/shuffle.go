// Package shuffle produces review orders.
package shuffle

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/benkyo/internal/model"
)

// Func permutes items in place.
type Func func(items []model.Item)

// Generator shuffles with its own random source.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle applies a Fisher-Yates permutation to items in place.
func (g *Generator) Shuffle(items []model.Item) {
	for i := len(items) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Identity leaves items in their input order.
func Identity(_ []model.Item) {}
