package achievement

import (
	"math/rand"
	"sort"
	"testing"
)

func TestEvaluateThresholds(t *testing.T) {
	defs := []Definition{
		{ID: "t1", Axis: AxisTranslations, Threshold: 1},
		{ID: "t50", Axis: AxisTranslations, Threshold: 50},
		{ID: "s7", Axis: AxisStreak, Threshold: 7},
		{ID: "c10k", Axis: AxisCharacters, Threshold: 10_000},
	}

	tests := []struct {
		name     string
		unlocked []string
		stats    Stats
		want     []string
	}{
		{
			name:  "first relay unlocks first milestone only",
			stats: Stats{Translations: 1, Streak: 1, Characters: 800},
			want:  []string{"t1"},
		},
		{
			name:  "meets threshold exactly",
			stats: Stats{Translations: 50, Streak: 7, Characters: 10_000},
			want:  []string{"t1", "t50", "s7", "c10k"},
		},
		{
			name:     "already unlocked are skipped",
			unlocked: []string{"t1", "s7"},
			stats:    Stats{Translations: 60, Streak: 9, Characters: 500},
			want:     []string{"t50"},
		},
		{
			name:  "nothing crossed",
			stats: Stats{},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(defs, tt.unlocked, tt.stats)
			if len(got) != len(tt.want) {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Evaluate()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEvaluateOrderIndependent(t *testing.T) {
	stats := Stats{Translations: 120, Streak: 10, Characters: 50_000}
	unlocked := []string{"first_words"}

	base := Evaluate(Catalog(), unlocked, stats)
	sort.Strings(base)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		defs := Catalog()
		rng.Shuffle(len(defs), func(a, b int) { defs[a], defs[b] = defs[b], defs[a] })

		got := Evaluate(defs, unlocked, stats)
		sort.Strings(got)

		if len(got) != len(base) {
			t.Fatalf("shuffled Evaluate() = %v, want %v", got, base)
		}
		for j := range base {
			if got[j] != base[j] {
				t.Fatalf("shuffled Evaluate() = %v, want %v", got, base)
			}
		}
	}
}

func TestCatalogHasUniqueIDsAndSingleAxis(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Catalog() {
		if seen[d.ID] {
			t.Errorf("duplicate achievement id %q", d.ID)
		}
		seen[d.ID] = true
		switch d.Axis {
		case AxisTranslations, AxisStreak, AxisCharacters:
		default:
			t.Errorf("achievement %q has unknown axis %q", d.ID, d.Axis)
		}
		if d.Threshold <= 0 {
			t.Errorf("achievement %q has non-positive threshold %d", d.ID, d.Threshold)
		}
	}
}
