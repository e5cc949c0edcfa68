package planner

import (
	"reflect"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestMergeEmptyInputYieldsDefaults(t *testing.T) {
	m := NewMerger()
	got := m.Merge(nil)

	if got.Vibe != "chill" || got.EnergyLevel != EnergyMedium {
		t.Fatalf("expected chill/medium defaults, got %+v", got)
	}
	if got.BudgetCap != nil || got.DistanceCap != nil {
		t.Fatalf("expected no caps, got %+v", got)
	}
	if got.LikedKeywords == nil || got.TagKeywords == nil {
		t.Fatalf("keyword slices must be non-nil")
	}
}

func TestMergeTakesMinimumCaps(t *testing.T) {
	m := NewMerger()
	got := m.Merge([]TasteProfile{
		{UserID: "a", BudgetMax: fptr(50), DistanceKmMax: fptr(10)},
		{UserID: "b", BudgetMax: fptr(25)},
		{UserID: "c", DistanceKmMax: fptr(4)},
	})

	if got.BudgetCap == nil || *got.BudgetCap != 25 {
		t.Fatalf("expected budget cap 25, got %v", got.BudgetCap)
	}
	if got.DistanceCap == nil || *got.DistanceCap != 4 {
		t.Fatalf("expected distance cap 4, got %v", got.DistanceCap)
	}
}

func TestMergeMostFrequentVibeWins(t *testing.T) {
	m := NewMerger()
	got := m.Merge([]TasteProfile{
		{UserID: "a", Vibes: []string{"music", "outdoors"}},
		{UserID: "b", Vibes: []string{"outdoors"}},
		{UserID: "c", Vibes: []string{"cozy"}},
	})

	if got.Vibe != "outdoors" {
		t.Fatalf("expected outdoors (2 votes), got %q", got.Vibe)
	}
}

func TestMergeVibeTieGoesToFirstSeen(t *testing.T) {
	m := NewMerger()
	got := m.Merge([]TasteProfile{
		{UserID: "a", Vibes: []string{"music"}},
		{UserID: "b", Vibes: []string{"party"}},
	})

	if got.Vibe != "music" {
		t.Fatalf("expected first-seen music on tie, got %q", got.Vibe)
	}
}

func TestMergeDeduplicatesKeywordsCaseInsensitively(t *testing.T) {
	m := NewMerger()
	got := m.Merge([]TasteProfile{
		{UserID: "a", Likes: []string{"Live Music", "tacos"}, Tags: []string{"bar"}},
		{UserID: "b", Likes: []string{"live music", "Trivia"}, Tags: []string{"Bar", "patio"}},
	})

	wantLikes := []string{"Live Music", "tacos", "Trivia"}
	if !reflect.DeepEqual(got.LikedKeywords, wantLikes) {
		t.Fatalf("expected %v, got %v", wantLikes, got.LikedKeywords)
	}
	wantTags := []string{"bar", "patio"}
	if !reflect.DeepEqual(got.TagKeywords, wantTags) {
		t.Fatalf("expected %v, got %v", wantTags, got.TagKeywords)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	m := NewMerger()
	profiles := []TasteProfile{
		{UserID: "a", Vibes: []string{"music"}, Likes: []string{"tacos"}, BudgetMax: fptr(30)},
	}
	snapshot := []TasteProfile{
		{UserID: "a", Vibes: []string{"music"}, Likes: []string{"tacos"}, BudgetMax: fptr(30)},
	}

	merged := m.Merge(profiles)
	*merged.BudgetCap = 999
	merged.LikedKeywords[0] = "changed"

	if !reflect.DeepEqual(profiles[0].Vibes, snapshot[0].Vibes) ||
		!reflect.DeepEqual(profiles[0].Likes, snapshot[0].Likes) ||
		*profiles[0].BudgetMax != *snapshot[0].BudgetMax {
		t.Fatalf("merge mutated its input: %+v", profiles[0])
	}
}
