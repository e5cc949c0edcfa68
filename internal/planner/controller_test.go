package planner

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vivi-ai/vivi-planner/config"
)

func newAgenticOrchestrator(cat *stubCatalog, r StepReasoner) *Orchestrator {
	cfg := config.PlannerConfig{Agentic: true, DefaultLocation: "Boston, MA", CardLimit: 20}
	return NewOrchestrator(cfg, testTastes(), cat, r, nil)
}

func TestControllerFallbackMatchesPipelineResult(t *testing.T) {
	req := PlanRequest{QueryText: "live music tonight", UserIDs: []string{"a", "b"}}

	pipeline := newPipelineOrchestrator(&stubCatalog{items: testCandidates()}).
		Plan(context.Background(), req)

	r := &scriptedReasoner{err: errors.New("reasoning service down")}
	agentic := newAgenticOrchestrator(&stubCatalog{items: testCandidates()}, r).
		Plan(context.Background(), req)

	if !reflect.DeepEqual(agentic.Candidates, pipeline.Candidates) {
		t.Fatalf("fallback cards differ from pipeline cards:\n%+v\n%+v",
			agentic.Candidates, pipeline.Candidates)
	}
	if agentic.MergedVibe != pipeline.MergedVibe || agentic.EnergyProfile != pipeline.EnergyProfile {
		t.Fatalf("fallback summary differs: %+v vs %+v", agentic, pipeline)
	}
	wantLog := []string{
		"Listener: parsed vibes/time/budget",
		"Planner: merged tastes & fetched activities (fallback)",
		"Writer: scored 2 candidates",
	}
	if !reflect.DeepEqual(agentic.ActionLog, wantLog) {
		t.Fatalf("expected fallback log %v, got %v", wantLog, agentic.ActionLog)
	}
	if r.calls != 1 {
		t.Fatalf("expected a single reasoner call before fallback, got %d", r.calls)
	}
}

func TestControllerSilentReasonerFallsBackOnce(t *testing.T) {
	cat := &stubCatalog{items: testCandidates()}
	r := &scriptedReasoner{} // empty script decides nothing
	resp := newAgenticOrchestrator(cat, r).
		Plan(context.Background(), PlanRequest{QueryText: "chill", UserIDs: []string{"a"}})

	if cat.calls != 1 {
		t.Fatalf("fallback must search the catalog exactly once, got %d", cat.calls)
	}
	if len(resp.ActionLog) == 0 {
		t.Fatalf("action log must never be empty")
	}
	if r.calls != 1 {
		t.Fatalf("expected one reasoner call, got %d", r.calls)
	}
}

func TestControllerUnknownActionFallsBack(t *testing.T) {
	r := &scriptedReasoner{script: []Decision{{Action: "order_pizza"}}}
	resp := newAgenticOrchestrator(&stubCatalog{items: testCandidates()}, r).
		Plan(context.Background(), PlanRequest{QueryText: "music", UserIDs: []string{"a"}})

	for _, line := range resp.ActionLog {
		if strings.HasPrefix(line, "Controller:") {
			t.Fatalf("unknown action must not log controller steps, got %v", resp.ActionLog)
		}
	}
	if len(resp.Candidates) == 0 {
		t.Fatalf("fallback must still produce candidates")
	}
}

func TestControllerLoopExitAfterStepBudget(t *testing.T) {
	r := &scriptedReasoner{script: []Decision{{Action: "get_tastes"}}} // repeats forever
	resp := newAgenticOrchestrator(&stubCatalog{items: testCandidates()}, r).
		Plan(context.Background(), PlanRequest{QueryText: "music", UserIDs: []string{"a"}})

	if r.calls != maxDecisionSteps {
		t.Fatalf("expected exactly %d reasoner calls, got %d", maxDecisionSteps, r.calls)
	}
	last := resp.ActionLog[len(resp.ActionLog)-1]
	if !strings.HasSuffix(last, "(loop-exit)") {
		t.Fatalf("expected loop-exit marker, got %q", last)
	}
	// Nothing was merged or searched, so the summary degrades to defaults.
	if resp.MergedVibe != "chill" || resp.EnergyProfile != EnergyMedium {
		t.Fatalf("expected default summary, got %+v", resp)
	}
	if len(resp.Candidates) != 0 {
		t.Fatalf("expected no candidates without a search step, got %d", len(resp.Candidates))
	}
}

func TestControllerScriptedHappyPath(t *testing.T) {
	cat := &stubCatalog{items: testCandidates()}
	r := &scriptedReasoner{script: []Decision{
		{Action: "get_tastes"},
		{Action: "merge_tastes"},
		{Action: "find_activities"},
		{Action: "finalize"},
	}}
	resp := newAgenticOrchestrator(cat, r).
		Plan(context.Background(), PlanRequest{QueryText: "live music tonight", UserIDs: []string{"a", "b"}})

	wantLog := []string{
		"Listener: parsed vibes/time/budget",
		"Controller:get_tastes",
		"Controller:merge_tastes",
		"Controller:find_activities",
		"Writer: scored 2 candidates",
	}
	if !reflect.DeepEqual(resp.ActionLog, wantLog) {
		t.Fatalf("expected log %v, got %v", wantLog, resp.ActionLog)
	}
	if r.calls != 4 {
		t.Fatalf("expected 4 reasoner calls, got %d", r.calls)
	}
	if cat.calls != 1 {
		t.Fatalf("expected one catalog search, got %d", cat.calls)
	}
	if resp.MergedVibe != "music" {
		t.Fatalf("expected music vibe, got %q", resp.MergedVibe)
	}
}

func TestControllerRepairsMergeBeforeSearch(t *testing.T) {
	// find_activities before any merge or taste fetch still works through
	// precondition repair.
	cat := &stubCatalog{items: testCandidates()}
	r := &scriptedReasoner{script: []Decision{
		{Action: "find_activities"},
		{Action: "finalize"},
	}}
	resp := newAgenticOrchestrator(cat, r).
		Plan(context.Background(), PlanRequest{QueryText: "live music tonight", UserIDs: []string{"a"}})

	if cat.calls != 1 {
		t.Fatalf("expected one catalog search, got %d", cat.calls)
	}
	if resp.MergedVibe != "music" {
		t.Fatalf("expected repaired merge to carry the intent vibe, got %q", resp.MergedVibe)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(resp.Candidates))
	}
}

func TestControllerMergeOverridesApply(t *testing.T) {
	cat := &stubCatalog{items: testCandidates()}
	r := &scriptedReasoner{script: []Decision{
		{Action: "merge_tastes", Args: DecisionArgs{Overrides: MergeOverrides{Vibe: "outdoors", EnergyLevel: "high"}}},
		{Action: "find_activities"},
		{Action: "finalize"},
	}}
	resp := newAgenticOrchestrator(cat, r).
		Plan(context.Background(), PlanRequest{QueryText: "live music tonight", UserIDs: []string{"a", "b"}})

	if resp.MergedVibe != "outdoors" {
		t.Fatalf("expected override vibe outdoors, got %q", resp.MergedVibe)
	}
	if resp.EnergyProfile != EnergyHigh {
		t.Fatalf("expected override energy high, got %v", resp.EnergyProfile)
	}
}
