package deck

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

func makeCards(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{ID: uuid.New(), Source: "algebra1"}
	}
	return cards
}

func TestBuilder_Shuffle_IsPermutation(t *testing.T) {
	t.Parallel()

	cards := makeCards(50)
	shuffled := NewWithSource(rand.NewSource(1)).Shuffle(cards)

	if len(shuffled) != len(cards) {
		t.Fatalf("length changed: got %d, want %d", len(shuffled), len(cards))
	}

	seen := make(map[uuid.UUID]int, len(cards))
	for _, c := range cards {
		seen[c.ID]++
	}
	for _, c := range shuffled {
		seen[c.ID]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Errorf("card %s count mismatch after shuffle: %d", id, n)
		}
	}
}

func TestBuilder_Shuffle_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	cards := makeCards(20)
	original := make([]domain.Card, len(cards))
	copy(original, cards)

	_ = NewWithSource(rand.NewSource(7)).Shuffle(cards)

	for i := range cards {
		if cards[i].ID != original[i].ID {
			t.Fatalf("input mutated at index %d", i)
		}
	}
}

func TestBuilder_Shuffle_DeterministicWithSeed(t *testing.T) {
	t.Parallel()

	cards := makeCards(30)

	a := NewWithSource(rand.NewSource(42)).Shuffle(cards)
	b := NewWithSource(rand.NewSource(42)).Shuffle(cards)

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different permutations at index %d", i)
		}
	}
}

func TestBuilder_Shuffle_Empty(t *testing.T) {
	t.Parallel()

	out := New().Shuffle(nil)
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d cards", len(out))
	}
}

func TestBuilder_Shuffle_SingleCard(t *testing.T) {
	t.Parallel()

	cards := makeCards(1)
	out := New().Shuffle(cards)
	if len(out) != 1 || out[0].ID != cards[0].ID {
		t.Fatal("single-card deck should shuffle to itself")
	}
}
