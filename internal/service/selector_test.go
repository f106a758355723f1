package service

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func newPool(n int) []uuid.UUID {
	pool := make([]uuid.UUID, n)
	for i := range pool {
		pool[i] = uuid.New()
	}
	return pool
}

func TestSampleWithoutReplacement(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		count    int
		want     int
	}{
		{name: "count below pool", poolSize: 10, count: 4, want: 4},
		{name: "count equals pool", poolSize: 5, count: 5, want: 5},
		{name: "count above pool returns entire pool", poolSize: 3, count: 8, want: 3},
		{name: "zero count", poolSize: 5, count: 0, want: 0},
		{name: "empty pool", poolSize: 0, count: 3, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool := newPool(tc.poolSize)
			rng := rand.New(rand.NewSource(42))

			got := sampleWithoutReplacement(pool, tc.count, rng)
			if len(got) != tc.want {
				t.Fatalf("sample size = %d, want %d", len(got), tc.want)
			}

			member := make(map[uuid.UUID]bool, tc.poolSize)
			for _, id := range pool {
				member[id] = true
			}
			seen := make(map[uuid.UUID]bool, len(got))
			for _, id := range got {
				if !member[id] {
					t.Errorf("sampled %s is not in the pool", id)
				}
				if seen[id] {
					t.Errorf("sampled %s twice", id)
				}
				seen[id] = true
			}
		})
	}
}

func TestSampleWithoutReplacementDoesNotMutatePool(t *testing.T) {
	pool := newPool(8)
	original := make([]uuid.UUID, len(pool))
	copy(original, pool)

	rng := rand.New(rand.NewSource(7))
	_ = sampleWithoutReplacement(pool, 3, rng)

	for i := range pool {
		if pool[i] != original[i] {
			t.Fatalf("pool mutated at index %d", i)
		}
	}
}

func TestSampleWithoutReplacementVariesAcrossDraws(t *testing.T) {
	pool := newPool(20)
	rng := rand.New(rand.NewSource(1))

	first := sampleWithoutReplacement(pool, 5, rng)
	second := sampleWithoutReplacement(pool, 5, rng)

	same := len(first) == len(second)
	if same {
		for i := range first {
			if first[i] != second[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("two draws produced identical samples in identical order")
	}
}

func TestShuffleIDsPreservesMembership(t *testing.T) {
	pool := newPool(12)
	shuffled := make([]uuid.UUID, len(pool))
	copy(shuffled, pool)

	shuffleIDs(shuffled, rand.New(rand.NewSource(3)))

	if len(shuffled) != len(pool) {
		t.Fatalf("shuffle changed length: %d", len(shuffled))
	}
	seen := make(map[uuid.UUID]bool, len(pool))
	for _, id := range shuffled {
		seen[id] = true
	}
	for _, id := range pool {
		if !seen[id] {
			t.Errorf("shuffle lost %s", id)
		}
	}
}
