package agents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

func heartScore(t *testing.T, age int, troponin float64) int {
	t.Helper()
	rec := patient.NewRecord("P", age, patient.SexMale)
	rec.Labs[patient.Troponin] = patient.LabSeries{{Timestamp: time.Now(), Value: troponin}}
	bag := features.NewExtractor().Extract(rec)

	core := &CardiologyCore{acs: true}
	results := core.hypothesizeACS(rec, bag, 1)

	return int(results[0].SupportingEvidence["heart_score"].(int))
}

// P3: the HEART score is non-decreasing as age worsens, holding troponin fixed.
func TestHeartScore_MonotoneInAge(t *testing.T) {
	younger := heartScore(t, 30, 0.02)
	middle := heartScore(t, 50, 0.02)
	older := heartScore(t, 70, 0.02)

	assert.LessOrEqual(t, younger, middle)
	assert.LessOrEqual(t, middle, older)
}

// P3: the HEART score is non-decreasing as troponin worsens, holding age fixed.
func TestHeartScore_MonotoneInTroponin(t *testing.T) {
	low := heartScore(t, 55, 0.01)
	mid := heartScore(t, 55, 0.05)
	high := heartScore(t, 55, 0.2)

	assert.LessOrEqual(t, low, mid)
	assert.LessOrEqual(t, mid, high)
}
