package agents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

func newSafetyRecord() *patient.Record {
	return patient.NewRecord("P", 55, patient.SexMale)
}

func TestSafetyHypothesize_RisingHighTroponinAlertsSTEMI(t *testing.T) {
	core := &SafetyCore{}
	rec := newSafetyRecord()
	now := time.Now()
	rec.Labs[patient.Troponin] = patient.LabSeries{
		{Timestamp: now, Value: 0.3},
		{Timestamp: now.Add(time.Hour), Value: 0.9},
	}
	bag := features.Bag{Bool: map[string]bool{}, Num: map[string]float64{"troponin_latest": 0.9}}

	out := core.Hypothesize(rec, bag, 0)

	var found bool
	for _, r := range out {
		if r.Kind == diagnosis.STEMI {
			found = true
			assert.Equal(t, diagnosis.Critical, r.Risk)
		}
	}
	assert.True(t, found, "rising troponin >= 0.5 must trigger the STEMI safety-net alert")
}

func TestSafetyHypothesize_HypotensionWithHypoxemiaAlertsMassivePE(t *testing.T) {
	core := &SafetyCore{}
	rec := newSafetyRecord()
	rec.Vitals[patient.BPSystolic] = 85
	rec.Vitals[patient.OxygenSaturation] = 87
	bag := features.Bag{Bool: map[string]bool{}, Num: map[string]float64{}}

	out := core.Hypothesize(rec, bag, 0)

	var found bool
	for _, r := range out {
		if r.Kind == diagnosis.MassivePE {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSafetyHypothesize_QSOFAOfTwoAlertsSepsis(t *testing.T) {
	core := &SafetyCore{}
	rec := newSafetyRecord()
	rec.Vitals[patient.RespiratoryRate] = 24
	rec.Vitals[patient.BPSystolic] = 95
	bag := features.Bag{Bool: map[string]bool{}, Num: map[string]float64{}}

	out := core.Hypothesize(rec, bag, 0)

	var found bool
	for _, r := range out {
		if r.Kind == diagnosis.Sepsis {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSafetyHypothesize_NormalVitalsTriggerNoAlerts(t *testing.T) {
	core := &SafetyCore{}
	rec := newSafetyRecord()
	rec.Vitals[patient.BPSystolic] = 120
	rec.Vitals[patient.RespiratoryRate] = 16
	rec.Vitals[patient.OxygenSaturation] = 98
	bag := features.Bag{Bool: map[string]bool{}, Num: map[string]float64{}}

	out := core.Hypothesize(rec, bag, 0)

	assert.Empty(t, out)
}

func TestSafetyFallback_ReportsNoAlert(t *testing.T) {
	core := &SafetyCore{}

	fb := core.Fallback()

	assert.Equal(t, diagnosis.Unknown, fb.Kind)
	assert.Equal(t, 0.0, fb.Confidence)
}
