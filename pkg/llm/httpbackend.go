package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPBackend calls an out-of-process model-serving endpoint over HTTP,
// the way the teacher's rag_service.go calls its embedding/LLM sidecar.
type HTTPBackend struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewHTTPBackend builds an HTTPBackend with a sane default client timeout.
// Callers should still pass a context deadline per call; this timeout is a
// backstop, not the primary cancellation mechanism.
func NewHTTPBackend(baseURL, model string) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type vitalsRequest struct {
	Model   string     `json:"model"`
	HR      float64    `json:"heart_rate"`
	HRV     float64    `json:"hrv_rmssd"`
	SpO2    float64    `json:"spo2"`
	History []ChatTurn `json:"history,omitempty"`
}

type vitalsResponse struct {
	Diagnosis       string   `json:"diagnosis"`
	Confidence      float64  `json:"confidence"`
	RiskLevel       string   `json:"risk_level"`
	Reasoning       string   `json:"reasoning"`
	Recommendations []string `json:"recommendations"`
}

func (b *HTTPBackend) AnalyzeMedicalVitals(ctx context.Context, hr, hrv, spo2 float64, history []ChatTurn) (VitalsAnalysis, error) {
	reqBody, err := json.Marshal(vitalsRequest{Model: b.Model, HR: hr, HRV: hrv, SpO2: spo2, History: history})
	if err != nil {
		return VitalsAnalysis{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var out vitalsResponse
	if err := b.post(ctx, "/v1/analyze-vitals", reqBody, &out); err != nil {
		return VitalsAnalysis{}, err
	}
	return VitalsAnalysis{
		Diagnosis:       out.Diagnosis,
		Confidence:      out.Confidence,
		RiskLevel:       out.RiskLevel,
		Reasoning:       out.Reasoning,
		Recommendations: out.Recommendations,
	}, nil
}

type chatRequest struct {
	Model       string     `json:"model"`
	Message     string     `json:"message"`
	History     []ChatTurn `json:"history,omitempty"`
	Language    string     `json:"language,omitempty"`
	Temperature string     `json:"temperature,omitempty"`
}

type chatResponse struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (b *HTTPBackend) Analyze(ctx context.Context, message string, history []ChatTurn, language, temperature string) (AnalyzeResult, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:       b.Model,
		Message:     message,
		History:     history,
		Language:    language,
		Temperature: temperature,
	})
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var out chatResponse
	if err := b.post(ctx, "/v1/chat", reqBody, &out); err != nil {
		return AnalyzeResult{}, err
	}
	return AnalyzeResult{Text: out.Text, Success: out.Success, Error: out.Error}, nil
}

func (b *HTTPBackend) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrBackendUnavailable, err)
	}
	return nil
}
