package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcclellann/simpleloan/pkg/events"
	"github.com/mcclellann/simpleloan/pkg/store"
)

// Ledger handles the business logic for loans and payments. It holds no state of
// its own: every balance is recomputed from the store on each read.
type Ledger struct {
	storage   store.Storage
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Ledger)

// WithPublisher sends lifecycle events to p after each committed write.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithClock overrides the time source used to stamp loans and payments.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a new Ledger with a given Storage implementation.
func NewLedger(s store.Storage, opts ...Option) *Ledger {
	l := &Ledger{
		storage:   s,
		publisher: events.NopPublisher{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// publish is best effort: the write it reports on has already been committed.
func (l *Ledger) publish(ctx context.Context, evt events.Event) {
	if err := l.publisher.Publish(ctx, evt); err != nil {
		l.logger.Warn("failed to publish event",
			"event_type", evt.Type,
			"loan_id", evt.LoanID.String(),
			"error", err,
		)
	}
}
