package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher provides typed methods for publishing diagnosis events to NATS
// JetStream. A nil *Publisher is valid and publishes nothing.
type Publisher struct {
	client *Client
}

// NewPublisher creates a new Publisher.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Healthy reports whether the underlying NATS connection is active.
func (p *Publisher) Healthy() bool {
	return p != nil && p.client.Healthy()
}

// PublishDiagnosisScored publishes a scoring completion event.
func (p *Publisher) PublishDiagnosisScored(ctx context.Context, event DiagnosisScored) error {
	return p.publish(ctx, SubjectDiagnosisScored, event)
}

// PublishComparisonDone publishes an A/B comparison event.
func (p *Publisher) PublishComparisonDone(ctx context.Context, event ComparisonDone) error {
	return p.publish(ctx, SubjectComparisonDone, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.client.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
