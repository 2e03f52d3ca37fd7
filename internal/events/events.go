// Package events describes session changes and ships completed orders to
// downstream consumers.
package events

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"shopease-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type Type string

const (
	CartUpdated    Type = "cart.updated"
	ViewChanged    Type = "view.changed"
	ProfileUpdated Type = "profile.updated"
	OrderCompleted Type = "order.completed"
)

type Event struct {
	Type      Type                 `json:"type"`
	SessionID string               `json:"session_id"`
	View      entity.ViewState     `json:"view,omitempty"`
	Order     *entity.Order        `json:"order,omitempty"`
	History   *entity.OrderSummary `json:"history,omitempty"`
	At        time.Time            `json:"at"`
}

// Publisher forwards events outside the process.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// LogPublisher writes events to the service log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, evt Event) error {
	e := logger.Info().Str("type", string(evt.Type)).Str("session_id", evt.SessionID)
	if evt.View != "" {
		e = e.Str("view", string(evt.View))
	}
	if evt.Order != nil {
		e = e.Str("order_id", evt.Order.ID).Str("total", evt.Order.TotalAmount.StringFixed(2))
	}
	e.Msg("session event")
	return nil
}

func (LogPublisher) Close() error { return nil }
