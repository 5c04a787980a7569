package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	TypeLoanCreated     = "loan.created"
	TypePaymentRecorded = "payment.recorded"
)

// Event describes something that happened to a loan. Events are keyed by LoanID
// so all events of one loan land on the same partition.
type Event struct {
	ID          uuid.UUID       `json:"event_id"`
	Type        string          `json:"event_type"`
	LoanID      uuid.UUID       `json:"loan_id"`
	CustomerID  string          `json:"customer_id,omitempty"`
	PaymentID   string          `json:"payment_id,omitempty"`
	PaymentType string          `json:"payment_type,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// NewLoanCreated builds the event emitted after a loan is persisted. Amount is the principal.
func NewLoanCreated(loan *models.Loan) Event {
	return Event{
		ID:         uuid.New(),
		Type:       TypeLoanCreated,
		LoanID:     loan.ID,
		CustomerID: loan.CustomerID,
		Amount:     loan.Principal,
		OccurredAt: loan.CreatedAt,
	}
}

// NewPaymentRecorded builds the event emitted after a payment is persisted.
func NewPaymentRecorded(payment *models.Payment) Event {
	return Event{
		ID:          uuid.New(),
		Type:        TypePaymentRecorded,
		LoanID:      payment.LoanID,
		PaymentID:   payment.ID.String(),
		PaymentType: string(payment.Kind),
		Amount:      payment.Amount,
		OccurredAt:  payment.RecordedAt,
	}
}

// Publisher delivers events to external consumers.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }

func (NopPublisher) Close() error { return nil }
