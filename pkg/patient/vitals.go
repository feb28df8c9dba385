// Package patient defines the immutable patient snapshot consumed by every
// specialty agent, the triage engine, and the treatment planner.
package patient

// VitalName is a closed enumeration of the vitals a PatientRecord may carry.
type VitalName string

const (
	HeartRate        VitalName = "heart_rate"
	BPSystolic       VitalName = "bp_sys"
	BPDiastolic      VitalName = "bp_dia"
	RespiratoryRate  VitalName = "respiratory_rate"
	OxygenSaturation VitalName = "oxygen_saturation"
	Temperature      VitalName = "temperature"
)

// sanityRange is the clamp window from spec.md §3: values outside it are
// treated as missing rather than rejected.
type sanityRange struct{ min, max float64 }

var sanityRanges = map[VitalName]sanityRange{
	HeartRate:        {20, 250},
	BPSystolic:       {30, 300},
	OxygenSaturation:  {50, 100},
	RespiratoryRate:  {4, 60},
	Temperature:      {80, 115},
}

func (v VitalName) Valid() bool {
	switch v {
	case HeartRate, BPSystolic, BPDiastolic, RespiratoryRate, OxygenSaturation, Temperature:
		return true
	}
	return false
}

// Vitals is a sparse map of vital readings for one point-in-time snapshot.
type Vitals map[VitalName]float64

// Get returns the value and whether it is present and within its sanity
// clamp. Out-of-range values are reported as absent per the §3 invariant.
func (v Vitals) Get(name VitalName) (float64, bool) {
	val, ok := v[name]
	if !ok {
		return 0, false
	}
	if r, hasRange := sanityRanges[name]; hasRange {
		if val < r.min || val > r.max {
			return 0, false
		}
	}
	return val, true
}

// GetOr returns the value or a fallback when missing/out of range.
func (v Vitals) GetOr(name VitalName, fallback float64) float64 {
	if val, ok := v.Get(name); ok {
		return val
	}
	return fallback
}
