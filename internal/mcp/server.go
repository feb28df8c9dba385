// Package mcp exposes the assessment and ingestion pipelines as MCP tools,
// generalizing the teacher's internal/mcp/server.go
// (get_similar_patients/search_feedback) to this domain's two core
// operations.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/clinical/chestpain-copilot/pkg/alerts"
	"github.com/clinical/chestpain-copilot/pkg/healthtwin"
	"github.com/clinical/chestpain-copilot/pkg/ingest"
	"github.com/clinical/chestpain-copilot/pkg/llm"
	"github.com/clinical/chestpain-copilot/pkg/orchestrator"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/progress"
	"github.com/clinical/chestpain-copilot/pkg/treatment"
	"github.com/clinical/chestpain-copilot/pkg/triage"
	"github.com/clinical/chestpain-copilot/pkg/vitals"
)

// Server exposes assess_patient and ingest_vitals as MCP tools over a
// single shared set of domain collaborators.
type Server struct {
	orchestrator *orchestrator.Orchestrator
	triage       *triage.Engine
	treatment    *treatment.Planner
	ingestor     *ingest.Ingestor
	serv         *server.MCPServer
}

// New builds a Server with a self-contained set of collaborators (no
// external NATS/Redis/ML-service dependency, so the tool server works
// standalone over stdio the way the teacher's does).
func New() *Server {
	s := server.NewMCPServer("Chest-Pain Clinical Copilot MCP Server", "1.0.0")

	m := &Server{
		orchestrator: orchestrator.New(nil),
		triage:       triage.NewEngine(),
		treatment:    treatment.NewPlanner(),
		serv:         s,
	}

	var backend llm.Backend = llm.NewBreakerBackend(noopFallbackBackend{})
	m.ingestor = ingest.New(vitals.NewRegistry(0), healthtwin.NewTwin(), backend, alerts.NewMemorySink(), progress.NewMemoryBus())

	m.registerTools()
	return m
}

func (s *Server) registerTools() {
	assessTool := mcp.NewTool("assess_patient",
		mcp.WithDescription("Run the full chest-pain specialty-agent assessment, triage, and treatment plan for a patient record"),
		mcp.WithString("patient_id", mcp.Required()),
		mcp.WithNumber("age", mcp.Required()),
		mcp.WithString("sex", mcp.Required()),
		mcp.WithString("chief_complaint"),
		mcp.WithObject("vitals"),
	)
	s.serv.AddTool(assessTool, s.handleAssess)

	ingestTool := mcp.NewTool("ingest_vitals",
		mcp.WithDescription("Feed one streaming vitals sample through the real-time ingestion pipeline (baseline check, anomaly detection, alerting)"),
		mcp.WithString("patient_id", mcp.Required()),
		mcp.WithNumber("heart_rate"),
		mcp.WithNumber("hrv_rmssd"),
		mcp.WithNumber("spo2"),
	)
	s.serv.AddTool(ingestTool, s.handleIngestVitals)
}

func (s *Server) handleAssess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argData, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
	}

	var input struct {
		PatientID      string             `json:"patient_id"`
		Age            int                `json:"age"`
		Sex            string             `json:"sex"`
		ChiefComplaint string             `json:"chief_complaint"`
		Vitals         map[string]float64 `json:"vitals"`
	}
	if err := json.Unmarshal(argData, &input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	rec := patient.NewRecord(input.PatientID, input.Age, patient.Sex(input.Sex))
	rec.ChiefComplaint = input.ChiefComplaint
	for name, value := range input.Vitals {
		if vn := patient.VitalName(name); vn.Valid() {
			rec.Vitals[vn] = value
		}
	}

	state, err := s.orchestrator.Assess(ctx, rec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("orchestrator failure: %v", err)), nil
	}
	score := s.triage.Assess(rec, state.Primary)
	plan := s.treatment.Plan(state.Primary, rec)

	out, _ := json.Marshal(map[string]any{
		"primary":        state.Primary,
		"agent_results":  state.AgentResults,
		"safety_alerts":  state.SafetyAlerts,
		"triage":         score,
		"treatment_plan": plan,
	})
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleIngestVitals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argData, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
	}

	var input struct {
		PatientID string   `json:"patient_id"`
		HeartRate *float64 `json:"heart_rate"`
		HRVRMSSD  *float64 `json:"hrv_rmssd"`
		SpO2      *float64 `json:"spo2"`
	}
	if err := json.Unmarshal(argData, &input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	sample := vitals.Sample{
		Timestamp: time.Now(),
		PatientID: input.PatientID,
		HeartRate: input.HeartRate,
		HRVRMSSD:  input.HRVRMSSD,
		SpO2:      input.SpO2,
	}
	outcome := s.ingestor.Ingest(ctx, sample)

	out, _ := json.Marshal(outcome)
	return mcp.NewToolResultText(string(out)), nil
}

// Serve runs the MCP server over stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.serv)
}

// noopFallbackBackend always errors so ingest.Ingestor falls back to the
// deterministic rule of spec.md §4.8 step 4; the standalone MCP tool
// server has no ML_SERVICE_URL to call.
type noopFallbackBackend struct{}

func (noopFallbackBackend) AnalyzeMedicalVitals(ctx context.Context, hr, hrv, spo2 float64, history []llm.ChatTurn) (llm.VitalsAnalysis, error) {
	return llm.VitalsAnalysis{}, llm.ErrBackendUnavailable
}

func (noopFallbackBackend) Analyze(ctx context.Context, message string, history []llm.ChatTurn, language, temperature string) (llm.AnalyzeResult, error) {
	return llm.AnalyzeResult{}, llm.ErrBackendUnavailable
}
