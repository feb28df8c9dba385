package httpapi

import (
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"

	"github.com/clinical/chestpain-copilot/pkg/progress"
)

// ProgressHandler adapts a progress.Bus subscription onto a WebSocket
// connection, generalizing the teacher's ws_handler.go
// HandleConnection/BroadcastDiagnosis pair from a hardcoded diagnosis
// payload to the closed progress.Event set (spec.md §6).
type ProgressHandler struct {
	Bus progress.Bus
}

func NewProgressHandler(bus progress.Bus) *ProgressHandler {
	return &ProgressHandler{Bus: bus}
}

// Handle reads one "subscribe" control message naming a patient_id, then
// relays that patient's progress.Event stream until the socket closes.
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	var sub struct {
		Type      string `json:"type"`
		PatientID string `json:"patient_id"`
	}

	_, msg, err := c.ReadMessage()
	if err != nil {
		return
	}
	if err := json.Unmarshal(msg, &sub); err != nil || sub.PatientID == "" {
		log.Printf("progress ws: invalid subscribe payload: %v", err)
		return
	}

	ch, cancel := h.Bus.Subscribe(sub.PatientID)
	defer cancel()

	for event := range ch {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
