package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

func recordWithSBP(sbp float64) *patient.Record {
	rec := patient.NewRecord("P", 50, patient.SexMale)
	rec.Vitals[patient.BPSystolic] = sbp
	rec.Vitals[patient.HeartRate] = 80
	rec.Vitals[patient.OxygenSaturation] = 98
	return rec
}

// P5: lowering systolic BP can only move a patient to an equal-or-more-urgent
// ESI level, never a less urgent one, holding every other vital fixed.
func TestAssess_LowerSBPNeverLessUrgent(t *testing.T) {
	engine := NewEngine()
	sbps := []float64{130, 95, 88, 78}

	var prevESI int
	for i, sbp := range sbps {
		rec := recordWithSBP(sbp)
		score := engine.Assess(rec, nil)
		if i > 0 {
			assert.LessOrEqual(t, score.ESILevel, prevESI, "SBP=%v should not be less urgent than the previous, higher SBP", sbp)
		}
		prevESI = score.ESILevel
	}
}

func TestAssess_SBPBelow80TriggersESI1(t *testing.T) {
	score := NewEngine().Assess(recordWithSBP(75), nil)
	assert.Equal(t, 1, score.ESILevel)
}

func TestAssess_SBPBelow90TriggersESI2(t *testing.T) {
	score := NewEngine().Assess(recordWithSBP(85), nil)
	assert.Equal(t, 2, score.ESILevel)
}

func TestAssess_STEMIAlwaysESI1RegardlessOfVitals(t *testing.T) {
	rec := recordWithSBP(140)
	primary := diagnosis.New(diagnosis.STEMI, 0.9, diagnosis.Critical, "Cardiology", 0)

	score := NewEngine().Assess(rec, &primary)

	assert.Equal(t, 1, score.ESILevel)
	assert.Equal(t, "Admit ICU", score.Disposition)
}

func TestAssess_NoPrimaryFallsBackToResourceTriage(t *testing.T) {
	rec := recordWithSBP(140)
	score := NewEngine().Assess(rec, nil)

	assert.Equal(t, 5, score.ESILevel)
	assert.Empty(t, score.ResourcesNeeded)
}

func TestAssess_OlderAgeIncreasesPriorityScore(t *testing.T) {
	younger := NewEngine().Assess(recordWithSBP(140), nil)

	older := recordWithSBP(140)
	older.Age = 80
	olderScore := NewEngine().Assess(older, nil)

	assert.Greater(t, olderScore.PriorityScore, younger.PriorityScore)
}
