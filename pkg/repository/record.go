// Package repository defines the Repository collaborator (spec.md §6):
// durable storage for closed assessments and Health Twin baselines, named
// only by interface so the core never depends on a storage engine.
package repository

import "time"

// AssessmentRecord is the persisted outcome of one synchronous assessment:
// the primary diagnosis, triage score and treatment plan summary, stored
// for audit and later retrieval.
type AssessmentRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PatientID       string    `gorm:"index" json:"patient_id"`
	CreatedAt       time.Time `json:"created_at"`
	PrimaryKind     string    `json:"primary_kind"`
	PrimaryRisk     string    `json:"primary_risk"`
	PrimaryConf     float64   `json:"primary_confidence"`
	ESILevel        int       `json:"esi_level"`
	SafetyAlerts    string    `json:"safety_alerts"` // newline-joined, per spec.md §4.4's safety_alerts list
	TreatmentSummary string   `json:"treatment_summary"`
}

// BaselineRecord is a persisted snapshot of one patient/metric Health Twin
// baseline, allowing HealthTwin state to survive process restarts.
type BaselineRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PatientID  string    `gorm:"index" json:"patient_id"`
	Metric     string    `gorm:"index" json:"metric"`
	UpdatedAt  time.Time `json:"updated_at"`
	Count      int64     `json:"count"`
	Mean       float64   `json:"mean"`
	Variance   float64   `json:"variance"`
}

// Repository is the storage collaborator. Implementations must be safe for
// concurrent use.
type Repository interface {
	SaveAssessment(record AssessmentRecord) error
	ListAssessments(patientID string) ([]AssessmentRecord, error)

	SaveBaseline(record BaselineRecord) error
	LoadBaselines(patientID string) ([]BaselineRecord, error)
}
