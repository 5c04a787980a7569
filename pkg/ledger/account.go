package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mcclellann/simpleloan/pkg/events"
	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/shopspring/decimal"
)

// CreateLoan prices and stores a new loan. The customer is not checked for existence.
func (l *Ledger) CreateLoan(ctx context.Context, customerID string, principal decimal.Decimal, termYears int, ratePercent decimal.Decimal) (*models.Loan, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidTerms)
	}

	quote, err := Quote(principal, ratePercent, termYears)
	if err != nil {
		return nil, err
	}

	loan := &models.Loan{
		ID:           uuid.New(),
		CustomerID:   customerID,
		Principal:    RoundCurrency(principal),
		InterestRate: ratePercent,
		TermYears:    termYears,
		TotalPayable: quote.TotalPayable,
		MonthlyEMI:   quote.MonthlyEMI,
		CreatedAt:    l.now().UTC(),
	}
	if err := l.storage.CreateLoan(ctx, loan); err != nil {
		return nil, storageError("store loan", err)
	}

	l.publish(ctx, events.NewLoanCreated(loan))
	return loan, nil
}

// GetLoan returns the loan's fixed terms.
func (l *Ledger) GetLoan(ctx context.Context, loanID uuid.UUID) (*models.Loan, error) {
	loan, err := l.storage.GetLoan(ctx, loanID)
	if err != nil {
		return nil, storageError("find loan", err)
	}
	return loan, nil
}

// LedgerView returns the loan's terms, the figures derived from its payments and
// the payment history. Nothing here is read from a stored balance.
func (l *Ledger) LedgerView(ctx context.Context, loanID uuid.UUID) (*models.LedgerView, error) {
	loan, err := l.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	payments, err := l.storage.GetPaymentsForLoan(ctx, loanID)
	if err != nil {
		return nil, storageError("list payments", err)
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	view := Derive(loan, paid)
	view.Transactions = payments
	return view, nil
}

// Derive computes the state of loan after paid has been received. The balance is
// not floored, so an overpaid loan shows a negative balance and no EMIs left.
func Derive(loan *models.Loan, paid decimal.Decimal) *models.LedgerView {
	balance := RoundCurrency(loan.TotalPayable.Sub(paid))
	status := models.LoanStatusActive
	if !balance.IsPositive() {
		status = models.LoanStatusClosed
	}
	return &models.LedgerView{
		Loan:       loan,
		AmountPaid: RoundCurrency(paid),
		Balance:    balance,
		EMIsLeft:   EMIsLeft(balance, loan.MonthlyEMI),
		Status:     status,
	}
}
