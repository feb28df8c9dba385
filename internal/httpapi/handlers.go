package httpapi

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/clinical/chestpain-copilot/pkg/apierr"
	"github.com/clinical/chestpain-copilot/pkg/ingest"
	"github.com/clinical/chestpain-copilot/pkg/orchestrator"
	"github.com/clinical/chestpain-copilot/pkg/repository"
	"github.com/clinical/chestpain-copilot/pkg/treatment"
	"github.com/clinical/chestpain-copilot/pkg/triage"
	"github.com/clinical/chestpain-copilot/pkg/vitals"
)

var validate = validator.New()

// Handlers holds the domain collaborators the HTTP boundary calls into,
// generalizing the teacher's per-handler-struct-holds-a-service pattern
// (internal/handlers/handlers.go) to this domain's three entry points.
// Repository is optional: a nil Repository just skips persistence, the same
// best-effort posture the teacher's handlers take toward its optional
// RAG/cache collaborators.
type Handlers struct {
	Orchestrator *orchestrator.Orchestrator
	Triage       *triage.Engine
	Treatment    *treatment.Planner
	Ingestor     *ingest.Ingestor
	Repository   repository.Repository
}

// Assess handles POST /assess, per spec.md §6: 200 on success, 400 on
// malformed input, 500 only on orchestrator framework failure (never for
// individual agent failures).
func (h *Handlers) Assess(c *fiber.Ctx) error {
	var req AssessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	rec := req.Patient.toRecord()

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	state, err := h.Orchestrator.Assess(ctx, rec)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "orchestrator failure: " + err.Error()})
	}

	score := h.Triage.Assess(rec, state.Primary)
	plan := h.Treatment.Plan(state.Primary, rec)

	if h.Repository != nil {
		if err := h.Repository.SaveAssessment(toAssessmentRecord(rec.PatientID, state, score, plan)); err != nil {
			log.Printf("repository: failed to persist assessment for %s: %v", rec.PatientID, err)
		}
	}

	return c.Status(200).JSON(toAssessResponse(state, score, plan))
}

// Vitals handles POST /vitals, per spec.md §6.
func (h *Handlers) Vitals(c *fiber.Ctx) error {
	var req VitalsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(200).JSON(VitalsResponse{Status: "error", Message: "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(200).JSON(VitalsResponse{Status: "error", Message: (&apierr.ValidationError{Field: "body", Msg: err.Error()}).Error()})
	}

	ts := time.Now()
	if req.Timestamp > 0 {
		ts = time.Unix(int64(req.Timestamp), 0)
	}

	sample := vitals.Sample{
		Timestamp:       ts,
		PatientID:       req.PatientID,
		HeartRate:       req.HeartRate,
		HRVRMSSD:        req.HRVRMSSD,
		SpO2:            req.SpO2,
		RespiratoryRate: req.RespiratoryRate,
		BPSystolic:      req.BPSystolic,
		BPDiastolic:     req.BPDiastolic,
		DataSource:      vitals.DataSource(req.DataSource),
	}

	outcome := h.Ingestor.Ingest(c.Context(), sample)

	return c.Status(200).JSON(VitalsResponse{
		Status:     outcome.Status,
		Message:    outcome.Message,
		IsAnomaly:  outcome.IsAnomaly,
		RiskScore:  outcome.RiskScore,
		Diagnosis:  outcome.Diagnosis,
		Confidence: outcome.Confidence,
		RiskLevel:  outcome.RiskLevel,
		AlertSent:  outcome.AlertSent,
	})
}
