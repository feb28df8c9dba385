package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical/chestpain-copilot/pkg/agents"
	"github.com/clinical/chestpain-copilot/pkg/alerts"
	"github.com/clinical/chestpain-copilot/pkg/config"
	"github.com/clinical/chestpain-copilot/pkg/healthtwin"
	"github.com/clinical/chestpain-copilot/pkg/ingest"
	"github.com/clinical/chestpain-copilot/pkg/llm"
	"github.com/clinical/chestpain-copilot/pkg/orchestrator"
	"github.com/clinical/chestpain-copilot/pkg/progress"
	"github.com/clinical/chestpain-copilot/pkg/repository"
	"github.com/clinical/chestpain-copilot/pkg/treatment"
	"github.com/clinical/chestpain-copilot/pkg/triage"
	"github.com/clinical/chestpain-copilot/pkg/vitals"
)

// unavailableBackend always reports unavailable, forcing every /vitals call
// down the deterministic fallback path so tests stay hermetic.
type unavailableBackend struct{}

func (unavailableBackend) AnalyzeMedicalVitals(ctx context.Context, hr, hrv, spo2 float64, history []llm.ChatTurn) (llm.VitalsAnalysis, error) {
	return llm.VitalsAnalysis{}, llm.ErrBackendUnavailable
}

func (unavailableBackend) Analyze(ctx context.Context, message string, history []llm.ChatTurn, language, temperature string) (llm.AnalyzeResult, error) {
	return llm.AnalyzeResult{}, llm.ErrBackendUnavailable
}

func newTestAppWithRepo() (*fiber.App, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	handlers := &Handlers{
		Orchestrator: orchestrator.New(agents.DefaultRegistry()),
		Triage:       triage.NewEngine(),
		Treatment:    treatment.NewPlanner(),
		Ingestor: ingest.New(
			vitals.NewRegistry(64),
			healthtwin.NewTwin(),
			unavailableBackend{},
			alerts.NewMemorySink(),
			progress.NewMemoryBus(),
		),
		Repository: repo,
	}
	cfg := &config.Config{RateLimitGlobalMax: 1000, RateLimitAssessmentMax: 1000}
	return New(cfg, handlers, progress.NewMemoryBus()), repo
}

func newTestApp() *fiber.App {
	app, _ := newTestAppWithRepo()
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAssess_RejectsMissingPatientID(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/assess", map[string]any{
		"patient": map[string]any{"age": 50, "sex": "M"},
	})

	assert.Equal(t, 400, resp.StatusCode)
}

func TestAssess_ReturnsAssessmentForValidPatient(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/assess", map[string]any{
		"patient": map[string]any{
			"patient_id": "P1",
			"age":        58,
			"sex":        "M",
			"vitals": map[string]float64{
				"heart_rate": 88,
				"bp_sys":     145,
				"bp_dia":     92,
			},
		},
	})

	assert.Equal(t, 200, resp.StatusCode)

	var out AssessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Assessment.Primary)
	assert.NotEmpty(t, out.Assessment.Primary.DiagnosisKind)
	assert.NotZero(t, out.Triage.ESILevel)
	assert.NotEmpty(t, out.AssessmentID)
}

func TestAssess_PersistsAssessmentToRepository(t *testing.T) {
	app, repo := newTestAppWithRepo()

	resp := doJSON(t, app, "POST", "/assess", map[string]any{
		"patient": map[string]any{
			"patient_id": "P9",
			"age":        58,
			"sex":        "M",
			"vitals": map[string]float64{
				"heart_rate": 88,
				"bp_sys":     145,
				"bp_dia":     92,
			},
		},
	})
	assert.Equal(t, 200, resp.StatusCode)

	records, err := repo.ListAssessments("P9")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].PrimaryKind)
}

func TestVitals_ReturnsOKEvenOnInvalidBody(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/vitals", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode, "malformed streaming samples are dropped, not rejected")
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp()

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}
}
