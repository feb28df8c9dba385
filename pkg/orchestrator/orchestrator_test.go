package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
)

// P1: a life-threatening peer always wins consolidation, even against a
// higher-confidence non-emergent hypothesis.
func TestConsolidate_LifeThreatBeatsHigherConfidence(t *testing.T) {
	results := []diagnosis.Result{
		diagnosis.New(diagnosis.Costochondritis, 0.95, diagnosis.Low, "Musculoskeletal", 0),
		diagnosis.New(diagnosis.STEMI, 0.4, diagnosis.Critical, "Cardiology", 0),
	}

	primary := consolidate(results)

	require.NotNil(t, primary)
	assert.Equal(t, diagnosis.STEMI, primary.Kind)
	assert.True(t, primary.Risk.LifeThreatening())
}

func TestConsolidate_TiesBrokenByRegistrationOrder(t *testing.T) {
	results := []diagnosis.Result{
		diagnosis.New(diagnosis.NSTEMI, 0.7, diagnosis.High, "Cardiology", 0),
		diagnosis.New(diagnosis.PE, 0.7, diagnosis.High, "Pulmonary", 0),
	}

	primary := consolidate(results)

	require.NotNil(t, primary)
	assert.Equal(t, diagnosis.NSTEMI, primary.Kind, "stable sort must keep the first-registered tie winner")
}

func TestConsolidate_NoResultsYieldsUnknown(t *testing.T) {
	primary := consolidate(nil)

	require.NotNil(t, primary)
	assert.Equal(t, diagnosis.Unknown, primary.Kind)
}

// P6: two consolidation runs over identical inputs produce identical output.
func TestConsolidate_Deterministic(t *testing.T) {
	build := func() []diagnosis.Result {
		return []diagnosis.Result{
			diagnosis.New(diagnosis.StableAngina, 0.3, diagnosis.Moderate, "Cardiology", 0),
			diagnosis.New(diagnosis.Pneumonia, 0.6, diagnosis.Moderate, "Pulmonary", 0),
		}
	}

	first := consolidate(build())
	second := consolidate(build())

	assert.Equal(t, *first, *second)
}
