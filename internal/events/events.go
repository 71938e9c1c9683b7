// Package events publishes committed picker selections to a message broker
// so other services can react to them. Publishing is best effort: callers
// log failures and carry on.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/datepicker/internal/calendar"
)

// ChangeEvent is the message body for one committed selection.
type ChangeEvent struct {
	ID           string           `json:"id"`
	SessionToken string           `json:"session_token"`
	WidgetID     string           `json:"widget_id"`
	Mode         calendar.Mode    `json:"mode"`
	Change       *calendar.Change `json:"change"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// NewChangeEvent stamps a change with a fresh ID and the current time.
func NewChangeEvent(token, widgetID string, change *calendar.Change) ChangeEvent {
	return ChangeEvent{
		ID:           uuid.NewString(),
		SessionToken: token,
		WidgetID:     widgetID,
		Mode:         change.Mode,
		Change:       change,
		OccurredAt:   time.Now().UTC(),
	}
}

// RoutingKey is the topic a change for mode is published under.
func RoutingKey(mode calendar.Mode) string {
	return "picker." + string(mode) + ".changed"
}

// Publisher delivers change events.
type Publisher interface {
	PublishChange(ctx context.Context, ev ChangeEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// PublishChange implements Publisher.
func (NopPublisher) PublishChange(context.Context, ChangeEvent) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
