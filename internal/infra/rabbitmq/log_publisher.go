package rabbitmq

import (
	"context"
	"log"
)

// LogPublisher writes events to the process log. It stands in for the broker
// when RABBITMQ_URL is not set.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, pattern string, data any) error {
	_, body, err := encodeMessage(pattern, data)
	if err != nil {
		return err
	}
	log.Printf("event %s: %s", pattern, body)
	return nil
}
