package notify

import (
	"context"

	"marketgo/internal/logger"

	"go.uber.org/zap"
)

type Kind string

const (
	KindCartAdd      Kind = "CART_ADD"
	KindOrderPlaced  Kind = "ORDER_PLACED"
	KindReviewPrompt Kind = "REVIEW_PROMPT"
)

// Event is what a UI would surface as a toast or local notification. Route
// names the screen a tap should open, with its id when one applies.
type Event struct {
	Kind    Kind
	Title   string
	Body    string
	Route   string
	RouteID string
}

// Notifier receives user-facing events emitted by the flows. Stores never
// notify directly; the caller that triggered the mutation does.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// LogNotifier writes events to the structured log. It stands in for the
// platform notification service a UI shell would plug in here.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, ev Event) {
	logger.FromCtx(ctx).Info("notification",
		zap.String("kind", string(ev.Kind)),
		zap.String("title", ev.Title),
		zap.String("body", ev.Body),
		zap.String("route", ev.Route),
		zap.String("route_id", ev.RouteID),
	)
}

// Discard drops every event. Useful in tests.
type Discard struct{}

func (Discard) Notify(context.Context, Event) {}
