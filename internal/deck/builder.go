// Package deck builds the randomized working order of cards for one study
// round. Practice mode derives each retry round from the unshuffled original
// content, so shuffling always operates on a copy.
package deck

import (
	"math/rand"
	"time"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Builder produces shuffled decks. The RNG source is injectable so tests can
// seed it for deterministic permutations.
type Builder struct {
	rng *rand.Rand
}

// New creates a Builder seeded from the current time.
func New() *Builder {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource creates a Builder using the given RNG source.
func NewWithSource(src rand.Source) *Builder {
	return &Builder{rng: rand.New(src)}
}

// Shuffle returns a uniform random permutation of cards. The input slice is
// never mutated.
func (b *Builder) Shuffle(cards []domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	copy(out, cards)

	// Fisher–Yates, last to first.
	for i := len(out) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}
