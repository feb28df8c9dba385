// Package agents implements the five SpecialtyAgent scoring engines and the
// shared hypothesize-entropy-recurse-synthesize skeleton that drives every
// one of them, per spec.md §4.2.
package agents

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/specialty"
)

// DefaultMaxDepth and DefaultConfidenceThreshold are spec.md §4.2's defaults.
const (
	DefaultMaxDepth            = 3
	DefaultConfidenceThreshold = 0.85
)

// EmissionFloor is the default per-kind emission floor below which a scorer
// does not emit a hypothesis at all (spec.md §4.3). Pleuritis overrides it.
const EmissionFloor = 0.3

// Core is the variant-specific behavior a SpecialtyAgent plugs into the
// shared skeleton (Run, below). It is intentionally small: the skeleton
// owns entropy measurement, recursion gating, and synthesis; Core only
// generates hypotheses and names its own recursion targets.
type Core interface {
	// Tag identifies the specialty for logging, registry lookup, and the
	// AGENT_ERROR:<agent> safety-alert code.
	Tag() specialty.Tag

	// Hypothesize produces the ordered candidate DiagnosisResults for rec at
	// the given recursion depth. Implementations only emit kinds whose score
	// clears their emission floor.
	Hypothesize(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result

	// IdentifySubspecialties returns 0+ subspecialty tags to recurse into
	// when diagnostic entropy is high. Agents with no subspecialty notion
	// (e.g. Safety) return nil, which disables recursion regardless of
	// entropy.
	IdentifySubspecialties(hypotheses []diagnosis.Result) []string

	// SpawnChild instantiates the Core for a subspecialty tag returned by
	// IdentifySubspecialties. Returning nil for an unknown tag is safe; the
	// skeleton skips it.
	SpawnChild(subTag string) Core

	// Fallback returns the specialty-specific low-confidence sentinel
	// emitted when no hypothesis clears its emission floor.
	Fallback() diagnosis.Result
}

// Agent wraps a Core with the shared skeleton from spec.md §4.2's numbered
// algorithm: generate, measure entropy, conditionally recurse, synthesize.
type Agent struct {
	core                Core
	maxDepth            int
	confidenceThreshold float64
}

// New wraps core with the default max depth and confidence threshold.
func New(core Core) *Agent {
	return &Agent{core: core, maxDepth: DefaultMaxDepth, confidenceThreshold: DefaultConfidenceThreshold}
}

// WithLimits overrides max depth / confidence threshold, used by tests that
// exercise P4 (entropy-gated recursion, including threshold=1.0 disabling it).
func (a *Agent) WithLimits(maxDepth int, confidenceThreshold float64) *Agent {
	a.maxDepth = maxDepth
	a.confidenceThreshold = confidenceThreshold
	return a
}

func (a *Agent) Tag() specialty.Tag { return a.core.Tag() }

// Run executes the full skeleton at the given depth and returns one
// DiagnosisResult, per spec.md §4.2.
func (a *Agent) Run(ctx context.Context, rec *patient.Record, bag features.Bag, depth int) diagnosis.Result {
	hypotheses := a.core.Hypothesize(rec, bag, depth)

	uncertainty := NormalizedEntropy(hypotheses)

	// threshold=1.0 must disable all recursion (spec.md §8 P4): at that
	// threshold the gate's margin is 0, which any positive entropy would
	// clear, so thresholds of 1.0 and above are excluded explicitly.
	var children []diagnosis.Result
	if a.confidenceThreshold < 1.0 && uncertainty > (1-a.confidenceThreshold) && depth < a.maxDepth {
		children = a.recurse(ctx, rec, bag, depth, hypotheses)
	}

	result := synthesize(hypotheses, children, a.core.Fallback())
	result.Children = children
	if result.AgentName == "" {
		result.AgentName = string(a.core.Tag())
	}
	result.Clamp()
	return result
}

// recurse runs one child Agent per subspecialty tag concurrently and joins
// before returning, per spec.md §5: "all siblings run concurrently and are
// joined before their parent returns". A child's own failure is dropped
// silently here; agent-level failures are handled one level up by the
// orchestrator (spec.md §4.4).
func (a *Agent) recurse(ctx context.Context, rec *patient.Record, bag features.Bag, depth int, hypotheses []diagnosis.Result) []diagnosis.Result {
	tags := a.core.IdentifySubspecialties(hypotheses)
	if len(tags) == 0 {
		return nil
	}

	results := make([]diagnosis.Result, len(tags))
	present := make([]bool, len(tags))

	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		i, tag := i, tag
		child := a.core.SpawnChild(tag)
		if child == nil {
			continue
		}
		childAgent := &Agent{core: child, maxDepth: a.maxDepth, confidenceThreshold: a.confidenceThreshold}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = childAgent.Run(gctx, rec, bag, depth+1)
			present[i] = true
			return nil
		})
	}
	_ = g.Wait() // child failures never fail the parent; absent slots are simply skipped.

	out := make([]diagnosis.Result, 0, len(tags))
	for i, ok := range present {
		if ok {
			out = append(out, results[i])
		}
	}
	return out
}

// synthesize implements spec.md §4.2 step 4: a child with confidence > 0.8
// wins outright; otherwise the highest-confidence root hypothesis wins;
// otherwise the fallback.
func synthesize(hypotheses, children []diagnosis.Result, fallback diagnosis.Result) diagnosis.Result {
	var bestChild *diagnosis.Result
	for i := range children {
		if children[i].Confidence > 0.8 {
			if bestChild == nil || children[i].Confidence > bestChild.Confidence {
				c := children[i]
				bestChild = &c
			}
		}
	}
	if bestChild != nil {
		return *bestChild
	}

	var best *diagnosis.Result
	for i := range hypotheses {
		if best == nil || hypotheses[i].Confidence > best.Confidence {
			h := hypotheses[i]
			best = &h
		}
	}
	if best != nil {
		return *best
	}

	return fallback
}
