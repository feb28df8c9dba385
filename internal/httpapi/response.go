package httpapi

import (
	"strings"

	"github.com/google/uuid"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/orchestrator"
	"github.com/clinical/chestpain-copilot/pkg/repository"
	"github.com/clinical/chestpain-copilot/pkg/treatment"
	"github.com/clinical/chestpain-copilot/pkg/triage"
)

// DiagnosisDTO mirrors DiagnosisResult's wire shape, per spec.md §6.
type DiagnosisDTO struct {
	DiagnosisKind   string   `json:"diagnosis_kind"`
	Confidence      float64  `json:"confidence"`
	RiskLevel       string   `json:"risk_level"`
	Reasoning       string   `json:"reasoning"`
	Recommendations []string `json:"recommendations"`
	AgentName       string   `json:"agent_name,omitempty"`
}

func toDiagnosisDTO(r diagnosis.Result) DiagnosisDTO {
	return DiagnosisDTO{
		DiagnosisKind:   string(r.Kind),
		Confidence:      r.Confidence,
		RiskLevel:       string(r.Risk),
		Reasoning:       r.Reasoning,
		Recommendations: r.Recommendations,
		AgentName:       r.AgentName,
	}
}

// AssessmentDTO is the { assessment: {...} } envelope of POST /assess.
type AssessmentDTO struct {
	Primary      *DiagnosisDTO  `json:"primary"`
	AgentResults []DiagnosisDTO `json:"agent_results"`
	SafetyAlerts []string       `json:"safety_alerts"`
}

// TriageDTO mirrors TriageScore's wire shape.
type TriageDTO struct {
	ESILevel        int      `json:"esi_level"`
	PriorityScore   float64  `json:"priority_score"`
	WaitTimeTarget  string   `json:"wait_time_target"`
	Destination     string   `json:"destination"`
	Disposition     string   `json:"disposition"`
	ResourcesNeeded []string `json:"resources_needed"`
	NursingRatio    string   `json:"nursing_ratio"`
	MonitoringLevel string   `json:"monitoring_level"`
	CriticalFlags   []string `json:"critical_flags"`
	WarningFlags    []string `json:"warning_flags"`
	Rationale       []string `json:"rationale"`
}

func toTriageDTO(s triage.Score) TriageDTO {
	return TriageDTO{
		ESILevel: s.ESILevel, PriorityScore: s.PriorityScore, WaitTimeTarget: s.WaitTimeTarget,
		Destination: s.Destination, Disposition: s.Disposition, ResourcesNeeded: s.ResourcesNeeded,
		NursingRatio: s.NursingRatio, MonitoringLevel: s.MonitoringLevel,
		CriticalFlags: s.CriticalFlags, WarningFlags: s.WarningFlags, Rationale: s.Rationale,
	}
}

// TreatmentPlanDTO mirrors TreatmentPlan's wire shape.
type TreatmentPlanDTO struct {
	Diagnosis             string   `json:"diagnosis"`
	ImmediateActions      []string `json:"immediate_actions"`
	Medications           []string `json:"medications"`
	AlternativeTherapies  []string `json:"alternative_therapies"`
	ContraindicationFlags []string `json:"contraindication_flags"`
	MonitoringSchedule    []string `json:"monitoring_schedule"`
	FollowUpSchedule      []string `json:"follow_up_schedule"`
	PatientEducation      []string `json:"patient_education"`
	EvidenceGrade         string   `json:"evidence_grade"`
	Source                string   `json:"source"`
}

func toTreatmentDTO(p treatment.Plan) TreatmentPlanDTO {
	return TreatmentPlanDTO{
		Diagnosis: string(p.Diagnosis), ImmediateActions: p.ImmediateActions, Medications: p.Medications,
		AlternativeTherapies: p.AlternativeTherapies, ContraindicationFlags: p.ContraindicationFlags,
		MonitoringSchedule: p.MonitoringSchedule, FollowUpSchedule: p.FollowUpSchedule,
		PatientEducation: p.PatientEducation, EvidenceGrade: p.EvidenceGrade, Source: p.Source,
	}
}

// AssessResponse is the full POST /assess response body, per spec.md §6.
// AssessmentID is a server-generated correlation ID (not persisted identity;
// see Repository for that), letting a client tie this response back to
// whatever audit/log line the server emitted for the same call.
type AssessResponse struct {
	AssessmentID   string            `json:"assessment_id"`
	Assessment     AssessmentDTO     `json:"assessment"`
	Triage         TriageDTO         `json:"triage"`
	TreatmentPlan  TreatmentPlanDTO  `json:"treatment_plan"`
}

func toAssessResponse(state *orchestrator.State, score triage.Score, plan treatment.Plan) AssessResponse {
	var primary *DiagnosisDTO
	if state.Primary != nil {
		d := toDiagnosisDTO(*state.Primary)
		primary = &d
	}
	results := make([]DiagnosisDTO, 0, len(state.AgentResults))
	for _, r := range state.AgentResults {
		results = append(results, toDiagnosisDTO(r))
	}
	return AssessResponse{
		AssessmentID: uuid.NewString(),
		Assessment: AssessmentDTO{
			Primary:      primary,
			AgentResults: results,
			SafetyAlerts: state.SafetyAlerts,
		},
		Triage:        toTriageDTO(score),
		TreatmentPlan: toTreatmentDTO(plan),
	}
}

// toAssessmentRecord builds the repository.AssessmentRecord persisted for
// one /assess call, per spec.md §6's optional Repository component.
func toAssessmentRecord(patientID string, state *orchestrator.State, score triage.Score, plan treatment.Plan) repository.AssessmentRecord {
	var kind, risk string
	var confidence float64
	if state.Primary != nil {
		kind = string(state.Primary.Kind)
		risk = string(state.Primary.Risk)
		confidence = state.Primary.Confidence
	}
	return repository.AssessmentRecord{
		PatientID:        patientID,
		PrimaryKind:      kind,
		PrimaryRisk:      risk,
		PrimaryConf:      confidence,
		ESILevel:         score.ESILevel,
		SafetyAlerts:     strings.Join(state.SafetyAlerts, "\n"),
		TreatmentSummary: strings.Join(plan.ImmediateActions, "\n"),
	}
}

// VitalsResponse is the POST /vitals response body, per spec.md §6.
type VitalsResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message,omitempty"`
	IsAnomaly  bool    `json:"is_anomaly"`
	RiskScore  float64 `json:"risk_score"`
	Diagnosis  string  `json:"diagnosis,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	RiskLevel  string  `json:"risk_level,omitempty"`
	AlertSent  bool    `json:"alert_sent"`
}
