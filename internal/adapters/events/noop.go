package events

import (
	"context"

	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
)

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

var _ portssvc.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, string, []byte) error { return nil }

func (NoopPublisher) Close() error { return nil }
