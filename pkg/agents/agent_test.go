package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

// P4: setting confidenceThreshold to 1.0 must disable recursion regardless
// of how uncertain the root hypotheses are.
func TestRun_ThresholdOneDisablesRecursion(t *testing.T) {
	agent := NewCardiology().WithLimits(DefaultMaxDepth, 1.0)
	rec := patient.NewRecord("P1", 58, patient.SexMale)
	bag := features.NewExtractor().Extract(rec)

	result := agent.Run(context.Background(), rec, bag, 0)

	assert.Empty(t, result.Children, "threshold=1.0 must suppress all recursion")
}

// Below threshold 1.0 the gate opens for maximal uncertainty: at threshold
// 0.5 the single root hypothesis (normalized entropy 1.0) clears the 0.5
// margin, so the ACS sub-agent fires at depth 0.
func TestRun_ThresholdBelowOneAllowsRecursion(t *testing.T) {
	agent := NewCardiology().WithLimits(DefaultMaxDepth, 0.5)
	rec := patient.NewRecord("P2", 50, patient.SexMale)
	bag := features.NewExtractor().Extract(rec)

	result := agent.Run(context.Background(), rec, bag, 0)

	assert.NotEmpty(t, result.Children, "threshold=0.5 should clear the recursion gate at depth 0")
}

// P2: every DiagnosisResult's confidence must land in [0,1] after Run's
// Clamp call, regardless of how a Core computed it.
func TestRun_ConfidenceAlwaysClamped(t *testing.T) {
	for _, core := range []Core{&CardiologyCore{}, &GastroCore{}, &MskCore{}, &PulmonaryCore{}, &SafetyCore{}} {
		agent := New(core)
		rec := patient.NewRecord("P3", 45, patient.SexFemale)
		bag := features.NewExtractor().Extract(rec)

		result := agent.Run(context.Background(), rec, bag, 0)

		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestSynthesize_ChildAbove80WinsOverRoot(t *testing.T) {
	root := []diagnosis.Result{diagnosis.New(diagnosis.StableAngina, 0.4, diagnosis.Moderate, "x", 0)}
	children := []diagnosis.Result{diagnosis.New(diagnosis.NSTEMI, 0.9, diagnosis.High, "x.ACS", 1)}

	got := synthesize(root, children, diagnosis.New(diagnosis.Unknown, 0, diagnosis.Low, "x", 0))

	assert.Equal(t, diagnosis.NSTEMI, got.Kind)
}

func TestSynthesize_FallsBackWhenNoHypotheses(t *testing.T) {
	fallback := diagnosis.New(diagnosis.NonCardiacChestPain, 0.1, diagnosis.Low, "x", 0)

	got := synthesize(nil, nil, fallback)

	assert.Equal(t, diagnosis.NonCardiacChestPain, got.Kind)
}
