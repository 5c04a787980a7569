package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcclellann/simpleloan/pkg/events"
	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/shopspring/decimal"
)

// RecordPayment appends a payment to the loan. Payments beyond the amount
// still owed are accepted and drive the balance negative.
func (l *Ledger) RecordPayment(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal, kind models.PaymentKind) (*models.Payment, error) {
	amount = RoundCurrency(amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: payment type must be %s or %s", ErrInvalidPayment, models.PaymentKindEMI, models.PaymentKindLumpSum)
	}

	if _, err := l.storage.GetLoan(ctx, loanID); err != nil {
		return nil, storageError("find loan", err)
	}

	payment := &models.Payment{
		ID:         uuid.New(),
		LoanID:     loanID,
		Amount:     amount,
		Kind:       kind,
		RecordedAt: l.now().UTC(),
	}
	if err := l.storage.CreatePayment(ctx, payment); err != nil {
		return nil, storageError("store payment", err)
	}

	l.publish(ctx, events.NewPaymentRecorded(payment))
	return payment, nil
}

// History returns the loan's payments, most recent first.
func (l *Ledger) History(ctx context.Context, loanID uuid.UUID) ([]*models.Payment, error) {
	if _, err := l.storage.GetLoan(ctx, loanID); err != nil {
		return nil, storageError("find loan", err)
	}
	payments, err := l.storage.GetPaymentsForLoan(ctx, loanID)
	if err != nil {
		return nil, storageError("list payments", err)
	}
	return payments, nil
}

// TotalPaid is the sum of every payment recorded against the loan, zero if none.
func (l *Ledger) TotalPaid(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	total, err := l.storage.SumPaymentsForLoan(ctx, loanID)
	if err != nil {
		return decimal.Zero, storageError("sum payments", err)
	}
	return total, nil
}
