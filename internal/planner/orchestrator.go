package planner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vivi-ai/vivi-planner/config"
	"github.com/vivi-ai/vivi-planner/internal/telemetry"
)

// Orchestrator composes the listener, merger, writer and the external
// collaborators into the planning pipeline. When agentic mode is enabled and
// a reasoner is available it delegates step decisions to the Controller;
// otherwise it runs the fixed four-stage pipeline. Both paths produce the
// same output shape and never surface collaborator errors to the caller.
type Orchestrator struct {
	cfg       config.PlannerConfig
	listener  *Listener
	merger    *Merger
	writer    *Writer
	tastes    TasteSource
	catalog   CandidateSource
	reasoner  StepReasoner
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewOrchestrator creates a new orchestrator instance. reasoner may be nil,
// in which case the fixed pipeline is always used.
func NewOrchestrator(cfg config.PlannerConfig, tastes TasteSource, catalog CandidateSource, reasoner StepReasoner, tele *telemetry.Telemetry) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		listener:  NewListener(),
		merger:    NewMerger(),
		writer:    NewWriter(),
		tastes:    tastes,
		catalog:   catalog,
		reasoner:  reasoner,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[ORCH] ", log.LstdFlags),
	}
}

// Plan executes one planning request to completion.
func (o *Orchestrator) Plan(ctx context.Context, req PlanRequest) PlanResponse {
	start := time.Now()
	mode := "pipeline"
	if o.cfg.Agentic && o.reasoner != nil {
		mode = "agentic"
	}
	o.telemetry.PlanStarted(mode)
	defer func() {
		o.telemetry.ObservePlanDuration(mode, time.Since(start))
	}()

	if mode == "agentic" {
		return newController(o).Run(ctx, req)
	}
	return o.runPipeline(ctx, req)
}

// runPipeline is the deterministic listener → tastes → merge → search →
// write path. Each stage appends one action-log line.
func (o *Orchestrator) runPipeline(ctx context.Context, req PlanRequest) PlanResponse {
	actionLog := []string{}

	intent := o.listener.Run(req.QueryText)
	actionLog = append(actionLog, "Listener: parsed vibes/time/budget")

	tastes := o.fetchTastes(ctx, req.UserIDs)
	merged := o.mergeWithIntent(tastes, intent, req, MergeOverrides{})
	raw := o.catalog.Find(ctx, merged)
	actionLog = append(actionLog, "Planner: merged tastes & fetched activities")

	cards := o.limitCards(o.writer.Run(merged, raw))
	actionLog = append(actionLog, fmt.Sprintf("Writer: scored %d candidates", len(cards)))

	return PlanResponse{
		QueryNormalized: strings.TrimSpace(req.QueryText),
		MergedVibe:      merged.Vibe,
		EnergyProfile:   merged.EnergyLevel,
		Candidates:      cards,
		ActionLog:       actionLog,
	}
}

func (o *Orchestrator) fetchTastes(ctx context.Context, userIDs []string) []TasteProfile {
	tastes := make([]TasteProfile, 0, len(userIDs))
	for _, uid := range userIDs {
		tastes = append(tastes, o.tastes.Taste(ctx, uid))
	}
	return tastes
}

// mergeWithIntent is the single merge-with-overrides routine shared by the
// fixed pipeline, the controller's merge/search steps and the fallback path.
// Precedence per field: reasoner override, then request, then intent hint,
// then the merged default.
func (o *Orchestrator) mergeWithIntent(tastes []TasteProfile, intent Intent, req PlanRequest, ov MergeOverrides) MergedProfile {
	merged := o.merger.Merge(tastes)

	merged.LikedKeywords = appendUnique(merged.LikedKeywords, req.CustomLikes)
	merged.TagKeywords = appendUnique(merged.TagKeywords, req.CustomTags)

	merged.Location = strings.TrimSpace(firstNonEmpty(ov.Location, req.LocationHint, o.cfg.DefaultLocation))
	merged.TimeWindow = strings.TrimSpace(firstNonEmpty(ov.TimeWindow, req.TimeWindow, intent.TimeHint))
	merged.Vibe = strings.ToLower(firstNonEmpty(ov.Vibe, req.VibeHint, intent.TopVibe(merged.Vibe)))

	if ov.EnergyLevel != "" {
		merged.EnergyLevel = ParseEnergyLevel(ov.EnergyLevel)
	} else {
		merged.EnergyLevel = intent.EnergyLevel
	}

	if req.BudgetCap != nil {
		merged.BudgetCap = cloneFloat(req.BudgetCap)
	} else if merged.BudgetCap == nil {
		merged.BudgetCap = cloneFloat(intent.BudgetHint)
	}
	if req.DistanceKm != nil {
		merged.DistanceCap = cloneFloat(req.DistanceKm)
	}

	return merged
}

func (o *Orchestrator) limitCards(cards []PlanCard) []PlanCard {
	if o.cfg.CardLimit > 0 && len(cards) > o.cfg.CardLimit {
		return cards[:o.cfg.CardLimit]
	}
	return cards
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
