// Package vitals defines the streaming VitalSample type and its per-patient
// ring buffer, per spec.md §3/§5.
package vitals

import "time"

// DataSource is the closed-ish set of ingestion source tags a VitalSample
// may carry (spec.md §9's "Supplemented features": multi-source tagging
// recovered from the original phone-sensor source).
type DataSource string

const (
	SourceIOSHealthKit       DataSource = "ios_healthkit"
	SourceAndroidHealthConnect DataSource = "android_healthconnect"
	SourceManual             DataSource = "manual"
	SourceDemo               DataSource = "demo"
)

// Sample is one streaming vitals reading from a mobile sensor.
type Sample struct {
	Timestamp        time.Time
	PatientID        string
	HeartRate        *float64
	HRVRMSSD         *float64
	SpO2             *float64
	RespiratoryRate  *float64
	BPSystolic       *float64
	BPDiastolic      *float64
	DataSource       DataSource
}
