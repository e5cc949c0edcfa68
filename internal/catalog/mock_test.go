package catalog

import (
	"context"
	"testing"

	"github.com/vivi-ai/vivi-planner/internal/planner"
)

func TestMockFiltersByExactVibe(t *testing.T) {
	m := NewMock(20)
	got, err := m.Find(context.Background(), planner.MergedProfile{Vibe: "music"})
	if err != nil {
		t.Fatalf("mock find: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected music events")
	}
	for _, c := range got {
		if c.Vibe != "music" {
			t.Fatalf("expected only music events, got %q (%s)", c.Vibe, c.ID)
		}
	}
}

func TestMockFallsBackToTagMatches(t *testing.T) {
	// No event carries the vibe "nightlife", but several are tagged with it.
	m := NewMock(20)
	got, err := m.Find(context.Background(), planner.MergedProfile{Vibe: "nightlife"})
	if err != nil {
		t.Fatalf("mock find: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected tag-matched events")
	}
	for _, c := range got {
		tagged := false
		for _, tag := range c.Tags {
			if tag == "nightlife" {
				tagged = true
			}
		}
		if !tagged {
			t.Fatalf("expected only nightlife-tagged events, got %s", c.ID)
		}
	}
}

func TestMockNeverReturnsEmptyForNicheVibe(t *testing.T) {
	m := NewMock(20)
	got, err := m.Find(context.Background(), planner.MergedProfile{Vibe: "underwater-basket-weaving"})
	if err != nil {
		t.Fatalf("mock find: %v", err)
	}
	if len(got) != len(mockEvents) {
		t.Fatalf("expected the full curated set for an unmatched vibe, got %d", len(got))
	}
}

func TestMockRespectsLimit(t *testing.T) {
	m := NewMock(3)
	got, err := m.Find(context.Background(), planner.MergedProfile{})
	if err != nil {
		t.Fatalf("mock find: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
}

func TestMockBudgetAwareOrdering(t *testing.T) {
	m := NewMock(20)
	got, err := m.Find(context.Background(), planner.MergedProfile{
		Vibe:      "outdoors",
		BudgetCap: km(0),
	})
	if err != nil {
		t.Fatalf("mock find: %v", err)
	}
	if len(got) < 2 {
		t.Fatalf("expected at least 2 outdoors events, got %d", len(got))
	}
	if got[0].Price != planner.PriceFree {
		t.Fatalf("with a zero budget the free option should rank first, got %s (%s)", got[0].ID, got[0].Price)
	}
}
