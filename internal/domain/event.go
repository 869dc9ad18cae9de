package domain

import (
	"fmt"
	"time"
)

// EventType identifies an analytics event.
type EventType string

// Possible analytics events.
const (
	EventURLCreated EventType = "url_created"
	EventURLClicked EventType = "url_clicked"
)

// AnalyticsEvent is a fire-and-forget record of a creation or redirect.
type AnalyticsEvent struct {
	Event      EventType `json:"event"`
	ShortCode  string    `json:"short_code"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAnalyticsEvent creates an event stamped with the current time.
func NewAnalyticsEvent(event EventType, shortCode string) (*AnalyticsEvent, error) {
	if event != EventURLCreated && event != EventURLClicked {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventType, event)
	}
	if shortCode == "" {
		return nil, ErrEmptyShortCode
	}

	return &AnalyticsEvent{
		Event:      event,
		ShortCode:  shortCode,
		OccurredAt: time.Now().UTC(),
	}, nil
}
