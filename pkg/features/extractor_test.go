package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinical/chestpain-copilot/pkg/patient"
)

func TestExtract_DerivesBooleanThresholdsFromVitals(t *testing.T) {
	rec := patient.NewRecord("P", 70, patient.SexMale)
	rec.Vitals[patient.RespiratoryRate] = 24
	rec.Vitals[patient.OxygenSaturation] = 90
	rec.Vitals[patient.Temperature] = 101.5
	rec.Vitals[patient.HeartRate] = 110

	bag := NewExtractor().Extract(rec)

	assert.True(t, bag.B("tachypnea"))
	assert.True(t, bag.B("hypoxia"))
	assert.True(t, bag.B("fever"))
	assert.True(t, bag.B("hr_gt_100"))
	assert.True(t, bag.B("age_gt_65"))
	assert.False(t, bag.B("female"))
}

func TestExtract_MissingVitalsNeverTriggerThresholds(t *testing.T) {
	rec := patient.NewRecord("P", 30, patient.SexFemale)

	bag := NewExtractor().Extract(rec)

	assert.False(t, bag.B("tachypnea"))
	assert.False(t, bag.B("hypoxia"))
	assert.False(t, bag.B("fever"))
	assert.True(t, bag.B("normal_troponin"), "absent troponin must not read as abnormal")
}

func TestExtract_RisingTroponinTrendRatioAboveOne(t *testing.T) {
	rec := patient.NewRecord("P", 55, patient.SexMale)
	now := time.Now()
	rec.Labs[patient.Troponin] = patient.LabSeries{
		{Timestamp: now, Value: 0.02},
		{Timestamp: now.Add(time.Hour), Value: 0.08},
	}

	bag := NewExtractor().Extract(rec)

	assert.Greater(t, bag.N("troponin_trend_ratio"), 1.0)
}

func TestExtract_ICDHistoryFlags(t *testing.T) {
	rec := patient.NewRecord("P", 50, patient.SexMale)
	rec.ICDCodes[ICDGERD] = struct{}{}
	rec.ICDCodes["4019"] = struct{}{} // hypertension

	bag := NewExtractor().Extract(rec)

	assert.True(t, bag.B("history_gerd"))
	assert.False(t, bag.B("history_pud"))
	assert.Equal(t, 1.0, bag.N("cardiac_risk_factor_count"))
}
