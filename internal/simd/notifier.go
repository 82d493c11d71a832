package simd

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/archbench/archbench-engine/pkg/logger"
	"github.com/archbench/archbench-engine/pkg/models"
	"github.com/archbench/archbench-engine/pkg/utils"
)

// Publisher sends a message to a subject. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SimulationEvent is the JSON payload published after a completed simulation.
type SimulationEvent struct {
	ID              string                   `json:"id"`
	Scenario        string                   `json:"scenario"`
	Status          string                   `json:"status"`
	Score           int                      `json:"score"`
	Result          *models.SimulationResult `json:"result"`
	TimestampUnixMs int64                    `json:"timestampUnixMs"` // When the event was built
}

// Notifier publishes completion events asynchronously. Delivery is best
// effort: failures are retried with backoff and then logged. A nil Notifier
// is a no-op.
type Notifier struct {
	pub        Publisher
	subject    string
	maxRetries int
	backoff    *utils.Backoff
	wg         sync.WaitGroup
}

// NewNotifier creates a notifier publishing to subject.
func NewNotifier(pub Publisher, subject string) *Notifier {
	return &Notifier{
		pub:        pub,
		subject:    subject,
		maxRetries: 3,
		backoff:    utils.NewBackoff(100*time.Millisecond, 2*time.Second),
	}
}

// ConnectNATS dials the NATS server at url.
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("archbench-engine"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(10),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// Notify publishes an event for result in the background.
func (n *Notifier) Notify(scenario string, result *models.SimulationResult) {
	if n == nil || n.pub == nil || result == nil {
		return
	}

	event := SimulationEvent{
		ID:              uuid.NewString(),
		Scenario:        scenario,
		Status:          result.Status,
		Score:           result.Score,
		Result:          result,
		TimestampUnixMs: time.Now().UTC().UnixMilli(),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.publish(event)
	}()
}

// Wait blocks until in-flight events have been delivered or given up on.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

func (n *Notifier) publish(event SimulationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal simulation event", "event_id", event.ID, "error", err)
		return
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			delay := n.backoff.Delay(attempt)
			logger.Debug("retrying simulation event",
				"event_id", event.ID,
				"attempt", attempt,
				"delay", delay)
			time.Sleep(delay)
		}

		if err := n.pub.Publish(n.subject, data); err != nil {
			lastErr = err
			logger.Warn("simulation event publish failed",
				"subject", n.subject,
				"event_id", event.ID,
				"attempt", attempt+1,
				"error", err)
			continue
		}

		logger.Debug("simulation event published",
			"subject", n.subject,
			"event_id", event.ID,
			"scenario", event.Scenario,
			"status", event.Status)
		return
	}

	logger.Warn("failed to publish simulation event after retries",
		"subject", n.subject,
		"event_id", event.ID,
		"max_retries", n.maxRetries,
		"last_error", lastErr)
}
