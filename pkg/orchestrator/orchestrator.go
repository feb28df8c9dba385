package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/clinical/chestpain-copilot/pkg/agents"
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/specialty"
)

// Orchestrator runs the registered SpecialtyAgents over a PatientRecord,
// concurrently, and consolidates their results into an AssessmentState.
type Orchestrator struct {
	registry  agents.Registry
	extractor *features.Extractor
}

// New builds an Orchestrator over registry. A nil registry uses
// agents.DefaultRegistry(), the "all registered agents" comprehensive sweep
// spec.md §4.4 mandates for the chest-pain protocol.
func New(registry agents.Registry) *Orchestrator {
	if registry == nil {
		registry = agents.DefaultRegistry()
	}
	return &Orchestrator{registry: registry, extractor: features.NewExtractor()}
}

type agentOutcome struct {
	tag    specialty.Tag
	result diagnosis.Result
	err    error
}

// Assess runs every registered agent concurrently and joins before
// returning, per spec.md §5. Cancellation via ctx discards partial results
// and returns a nil State with ctx.Err(); individual agent failures never
// fail the assessment (spec.md §4.4, §7 AgentError).
func (o *Orchestrator) Assess(ctx context.Context, rec *patient.Record) (*State, error) {
	bag := o.extractor.Extract(rec)
	tags := o.registry.Tags()

	outcomes := make([]agentOutcome, len(tags))
	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		i, tag := i, tag
		agent := o.registry[tag]
		g.Go(func() error {
			outcomes[i] = runAgent(gctx, agent, rec, bag)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var results []diagnosis.Result
	var safetyAlerts []string
	for _, o := range outcomes {
		if o.err != nil {
			safetyAlerts = append(safetyAlerts, fmt.Sprintf("AGENT_ERROR:%s", o.tag))
			continue
		}
		results = append(results, o.result)
	}

	primary := consolidate(results)
	confidence := 0.0
	if primary != nil {
		confidence = primary.Confidence
	}

	return &State{
		Record:       rec,
		AgentResults: results,
		Primary:      primary,
		SafetyAlerts: safetyAlerts,
		Confidence:   confidence,
	}, nil
}

// runAgent isolates one agent invocation so a panic becomes an AgentError
// instead of crashing the whole assessment (spec.md §7).
func runAgent(ctx context.Context, agent *agents.Agent, rec *patient.Record, bag features.Bag) (outcome agentOutcome) {
	outcome.tag = agent.Tag()
	defer func() {
		if r := recover(); r != nil {
			outcome.err = fmt.Errorf("agent %s panicked: %v", outcome.tag, r)
		}
	}()
	if ctx.Err() != nil {
		outcome.err = ctx.Err()
		return
	}
	outcome.result = agent.Run(ctx, rec, bag, 0)
	return
}

// consolidate implements spec.md §4.4's primary-diagnosis selection:
// life-threatening (CRITICAL/HIGH) results always beat non-emergent
// (MODERATE/LOW) ones regardless of confidence; a stable sort resolves ties
// by the §4.4 registration order baked into `results`.
func consolidate(results []diagnosis.Result) *diagnosis.Result {
	var lifeThreatening, nonEmergent []int
	for i, r := range results {
		if r.Risk.LifeThreatening() {
			lifeThreatening = append(lifeThreatening, i)
		} else {
			nonEmergent = append(nonEmergent, i)
		}
	}

	if len(lifeThreatening) > 0 {
		sort.SliceStable(lifeThreatening, func(i, j int) bool {
			a, b := results[lifeThreatening[i]], results[lifeThreatening[j]]
			if a.Risk.Priority() != b.Risk.Priority() {
				return a.Risk.Priority() > b.Risk.Priority()
			}
			return a.Confidence > b.Confidence
		})
		return &results[lifeThreatening[0]]
	}

	if len(nonEmergent) > 0 {
		sort.SliceStable(nonEmergent, func(i, j int) bool {
			return results[nonEmergent[i]].Confidence > results[nonEmergent[j]].Confidence
		})
		return &results[nonEmergent[0]]
	}

	unknown := diagnosis.New(diagnosis.Unknown, 0, diagnosis.Low, "orchestrator", 0)
	unknown.Reasoning = "No agent produced a hypothesis."
	return &unknown
}
