package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// maxDecisionSteps caps how many times the controller will defer to the
// external reasoner before finalizing with whatever state accumulated.
const maxDecisionSteps = 7

// action is the closed set of steps the reasoner may request.
type action int

const (
	actionNone action = iota
	actionGetTastes
	actionMergeTastes
	actionFindActivities
	actionFinalize
	actionUnknown
)

func parseAction(s string) action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return actionNone
	case "get_tastes":
		return actionGetTastes
	case "merge_tastes":
		return actionMergeTastes
	case "find_activities":
		return actionFindActivities
	case "finalize":
		return actionFinalize
	default:
		return actionUnknown
	}
}

// controllerState is the request-scoped working state of one agentic run.
// Steps take a state value and return a new one; slices are re-allocated on
// change so no iteration observes another's mutation.
type controllerState struct {
	Query        string
	UserIDs      []string
	Intent       Intent
	Tastes       []TasteProfile
	Merged       *MergedProfile
	Candidates   []Candidate
	Observations []string
}

func (s controllerState) observe(obs string) controllerState {
	next := s
	next.Observations = make([]string, 0, len(s.Observations)+1)
	next.Observations = append(next.Observations, s.Observations...)
	next.Observations = append(next.Observations, obs)
	return next
}

// Controller drives the bounded decision loop: ask the reasoner for the next
// action, execute it against the same tool primitives the fixed pipeline
// uses, and guarantee termination with a valid response even if the reasoner
// is unavailable, silent or adversarial.
type Controller struct {
	orch   *Orchestrator
	logger *log.Logger
}

func newController(o *Orchestrator) *Controller {
	return &Controller{orch: o, logger: log.New(log.Writer(), "[CONTROLLER] ", log.LstdFlags)}
}

// Run executes up to maxDecisionSteps reasoner decisions for the request.
// Every path out of here yields a complete response with a non-empty action
// log.
func (c *Controller) Run(ctx context.Context, req PlanRequest) PlanResponse {
	actionLog := []string{}

	// Seed with listener intent to keep the controller prompt lightweight.
	intent := c.orch.listener.Run(req.QueryText)
	actionLog = append(actionLog, "Listener: parsed vibes/time/budget")

	st := controllerState{
		Query:        strings.TrimSpace(req.QueryText),
		UserIDs:      req.UserIDs,
		Intent:       intent,
		Observations: []string{},
	}

	for step := 1; step <= maxDecisionSteps; step++ {
		decision, err := c.orch.reasoner.Decide(ctx, DecisionPrompt{
			System: systemController,
			State:  c.promptState(st),
		})
		if err != nil || parseAction(decision.Action) == actionNone {
			// Reasoner unavailable, silent or malformed: one deterministic
			// fallback plan, then done.
			if err != nil {
				c.logger.Printf("reasoner unavailable at step %d: %v", step, err)
				c.orch.telemetry.ReasonerFailure()
			}
			return c.fallback(ctx, req, st, actionLog)
		}

		act := parseAction(decision.Action)
		c.orch.telemetry.ReasonerDecision(decision.Action)

		switch act {
		case actionGetTastes:
			st = c.applyGetTastes(ctx, st, decision.Args)
			actionLog = append(actionLog, "Controller:get_tastes")
		case actionMergeTastes:
			st = c.applyMergeTastes(ctx, req, st, decision.Args.Overrides)
			actionLog = append(actionLog, "Controller:merge_tastes")
		case actionFindActivities:
			st = c.applyFindActivities(ctx, req, st)
			actionLog = append(actionLog, "Controller:find_activities")
		case actionFinalize:
			return c.finalize(req, st, actionLog, "")
		default:
			// Unknown action: abort the loop into the fallback.
			c.logger.Printf("unrecognized action %q, using fallback", decision.Action)
			st = st.observe(fmt.Sprintf("unrecognized action %q", decision.Action))
			return c.fallback(ctx, req, st, actionLog)
		}
	}

	// Step budget exhausted without an explicit finalize.
	return c.finalize(req, st, actionLog, " (loop-exit)")
}

func (c *Controller) applyGetTastes(ctx context.Context, st controllerState, args DecisionArgs) controllerState {
	userIDs := args.UserIDs
	if len(userIDs) == 0 {
		userIDs = st.UserIDs
	}
	tastes := c.orch.fetchTastes(ctx, userIDs)
	next := st.observe(fmt.Sprintf("Fetched tastes for %d users", len(tastes)))
	next.Tastes = tastes
	return next
}

func (c *Controller) applyMergeTastes(ctx context.Context, req PlanRequest, st controllerState, ov MergeOverrides) controllerState {
	if len(st.Tastes) == 0 {
		// Precondition repair: merge was requested before tastes were fetched.
		st.Tastes = c.orch.fetchTastes(ctx, st.UserIDs)
	}
	merged := c.orch.mergeWithIntent(st.Tastes, st.Intent, req, ov)
	next := st.observe(fmt.Sprintf("Merged tastes → vibe=%s budget_cap=%s", merged.Vibe, formatCap(merged.BudgetCap)))
	next.Merged = &merged
	return next
}

func (c *Controller) applyFindActivities(ctx context.Context, req PlanRequest, st controllerState) controllerState {
	if st.Merged == nil {
		// Precondition repair: merge whatever tastes exist (possibly none).
		merged := c.orch.mergeWithIntent(st.Tastes, st.Intent, req, MergeOverrides{})
		st.Merged = &merged
	}
	raw := c.orch.catalog.Find(ctx, *st.Merged)
	next := st.observe(fmt.Sprintf("Found %d activities", len(raw)))
	next.Merged = st.Merged
	next.Candidates = raw
	return next
}

// finalize builds cards from whatever merged profile and candidates are in
// state, degrading gracefully to defaults when stages never ran.
func (c *Controller) finalize(req PlanRequest, st controllerState, actionLog []string, suffix string) PlanResponse {
	var merged MergedProfile
	if st.Merged != nil {
		merged = *st.Merged
	}
	cards := c.orch.limitCards(c.orch.writer.Run(merged, st.Candidates))
	actionLog = append(actionLog, fmt.Sprintf("Writer: scored %d candidates%s", len(cards), suffix))

	vibe := merged.Vibe
	if vibe == "" {
		vibe = "chill"
	}
	energy := merged.EnergyLevel
	if energy == "" {
		energy = EnergyMedium
	}
	return PlanResponse{
		QueryNormalized: st.Query,
		MergedVibe:      vibe,
		EnergyProfile:   energy,
		Candidates:      cards,
		ActionLog:       actionLog,
	}
}

// fallback runs the same deterministic path as the fixed pipeline, built at
// most once per request, whenever the reasoner yields nothing usable.
func (c *Controller) fallback(ctx context.Context, req PlanRequest, st controllerState, actionLog []string) PlanResponse {
	c.orch.telemetry.ControllerFallback()

	tastes := c.orch.fetchTastes(ctx, st.UserIDs)
	merged := c.orch.mergeWithIntent(tastes, st.Intent, req, MergeOverrides{})
	raw := c.orch.catalog.Find(ctx, merged)
	cards := c.orch.limitCards(c.orch.writer.Run(merged, raw))

	actionLog = append(actionLog,
		"Planner: merged tastes & fetched activities (fallback)",
		fmt.Sprintf("Writer: scored %d candidates", len(cards)),
	)
	return PlanResponse{
		QueryNormalized: st.Query,
		MergedVibe:      merged.Vibe,
		EnergyProfile:   merged.EnergyLevel,
		Candidates:      cards,
		ActionLog:       actionLog,
	}
}

// promptState renders the controller state the reasoner is allowed to see.
func (c *Controller) promptState(st controllerState) string {
	view := struct {
		Query          string         `json:"query"`
		UserIDs        []string       `json:"user_ids"`
		Intent         Intent         `json:"intent"`
		Tastes         []TasteProfile `json:"tastes"`
		Merged         *MergedProfile `json:"merged"`
		CandidateCount int            `json:"candidate_count"`
		Observations   []string       `json:"observations"`
	}{
		Query:          st.Query,
		UserIDs:        st.UserIDs,
		Intent:         st.Intent,
		Tastes:         st.Tastes,
		Merged:         st.Merged,
		CandidateCount: len(st.Candidates),
		Observations:   st.Observations,
	}
	b, err := json.Marshal(view)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func formatCap(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%.2f", *v)
}
