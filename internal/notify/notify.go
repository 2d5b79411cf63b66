package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// BookingEvent carries what an outbound channel (email, messenger) needs
// to tell the business about a booking change.
type BookingEvent struct {
	ID       string
	Business string
	Date     string
	Time     string
	Name     string
	Phone    string
	Service  string
	Price    float64
}

// Notifier is the outbound-notification collaborator. Delivery is best
// effort; the booking transaction never fails on a notifier error.
type Notifier interface {
	BookingCreated(ctx context.Context, event BookingEvent) error
	BookingCancelled(ctx context.Context, event BookingEvent) error
}

// LogNotifier records events to the log. It stands in for the real email
// channel, which lives outside this service.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) BookingCreated(_ context.Context, event BookingEvent) error {
	event.ID = uuid.NewString()
	n.log.Info("Booking created",
		slog.String("event_id", event.ID),
		slog.String("business", event.Business),
		slog.String("date", event.Date),
		slog.String("time", event.Time),
		slog.String("service", event.Service),
	)

	return nil
}

func (n *LogNotifier) BookingCancelled(_ context.Context, event BookingEvent) error {
	event.ID = uuid.NewString()
	n.log.Info("Booking cancelled",
		slog.String("event_id", event.ID),
		slog.String("business", event.Business),
		slog.String("date", event.Date),
		slog.String("time", event.Time),
	)

	return nil
}
