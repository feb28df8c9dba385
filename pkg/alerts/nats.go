package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the subject alerts are published to, mirroring the
// teacher's queue package's subject-per-concern convention.
const DefaultSubject = "medical.alerts"

// NATSSink publishes Alert envelopes to a NATS subject. Unlike the
// teacher's queue package this owns its connection rather than reaching
// for package-level globals (spec.md §9: no module-level singletons).
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// DialNATS connects to url with the teacher's retry/backoff posture and
// returns a Sink publishing to subject (DefaultSubject if empty).
func DialNATS(url, subject string) (*NATSSink, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	var conn *nats.Conn
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		conn, err = nats.Connect(url,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(10),
			nats.ReconnectWait(2*time.Second),
		)
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return &NATSSink{conn: conn, subject: subject}, nil
}

func (s *NATSSink) Fanout(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	done := make(chan error, 1)
	go func() { done <- s.conn.Publish(s.subject, payload) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
		return nil
	}
}

func (s *NATSSink) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
