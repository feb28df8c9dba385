// Package httpapi wires the spec.md §6 external interfaces — POST /assess,
// POST /vitals, the progress WebSocket — onto the domain packages, the way
// the teacher's internal/handlers package wires HTTP onto pkg/services.
package httpapi

import (
	"time"

	"github.com/clinical/chestpain-copilot/pkg/patient"
)

// AssessRequest is the boundary shape for POST /assess; validator tags
// enforce spec.md §3's invariants at the edge (go-playground/validator, the
// teacher's validation library).
type AssessRequest struct {
	Patient PatientDTO `json:"patient" validate:"required"`
}

type PatientDTO struct {
	PatientID      string             `json:"patient_id" validate:"required"`
	HadmID         string             `json:"hadm_id"`
	Age            int                `json:"age" validate:"gte=0,lte=130"`
	Sex            string             `json:"sex" validate:"required,oneof=M F other"`
	ChiefComplaint string             `json:"chief_complaint"`
	Vitals         map[string]float64 `json:"vitals"`
	Labs           map[string][]LabPointDTO `json:"labs"`
	ICDCodes       []string           `json:"icd_codes"`
	AdmissionTime  time.Time          `json:"admission_time"`
}

type LabPointDTO struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Value     float64   `json:"value"`
}

// toRecord converts the validated DTO into a patient.Record, dropping any
// vitals/labs entries outside the closed name sets (spec.md §9: "ad-hoc
// string keys" become closed enumerations with parse-at-boundary
// validation).
func (dto PatientDTO) toRecord() *patient.Record {
	rec := patient.NewRecord(dto.PatientID, dto.Age, patient.Sex(dto.Sex))
	rec.HadmID = dto.HadmID
	rec.ChiefComplaint = dto.ChiefComplaint
	if !dto.AdmissionTime.IsZero() {
		rec.AdmissionTime = dto.AdmissionTime
	}

	for name, value := range dto.Vitals {
		if vn := patient.VitalName(name); vn.Valid() {
			rec.Vitals[vn] = value
		}
	}

	for name, points := range dto.Labs {
		ln := patient.LabName(name)
		if !ln.Valid() {
			continue
		}
		series := make(patient.LabSeries, 0, len(points))
		for _, p := range points {
			series = append(series, patient.LabPoint{Timestamp: p.Timestamp, Value: p.Value})
		}
		rec.Labs[ln] = series
	}

	for _, code := range dto.ICDCodes {
		rec.ICDCodes[code] = struct{}{}
	}

	return rec
}

// VitalsRequest is the boundary shape for POST /vitals, per spec.md §6.
type VitalsRequest struct {
	PatientID       string  `json:"patient_id" validate:"required"`
	HeartRate       *float64 `json:"heart_rate"`
	HRVRMSSD        *float64 `json:"hrv_rmssd"`
	SpO2            *float64 `json:"spo2"`
	RespiratoryRate *float64 `json:"respiratory_rate"`
	BPSystolic      *float64 `json:"bp_sys"`
	BPDiastolic     *float64 `json:"bp_dia"`
	DataSource      string   `json:"data_source"`
	Timestamp       float64  `json:"timestamp"`
}
