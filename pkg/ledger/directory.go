package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/mcclellann/simpleloan/pkg/models"
)

// DefaultCustomers are created on startup when seeding is enabled.
var DefaultCustomers = []models.Customer{
	{ID: "CUST001", Name: "John Doe"},
	{ID: "CUST002", Name: "Jane Smith"},
	{ID: "CUST003", Name: "Bob Johnson"},
}

// SeedCustomers inserts customers that don't exist yet. Existing rows are left as they are.
func (l *Ledger) SeedCustomers(ctx context.Context, customers []models.Customer) error {
	now := l.now().UTC()
	for i := range customers {
		c := customers[i]
		if c.CreatedAt.IsZero() {
			// Keep seed order stable when listing by creation time.
			c.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		if err := l.storage.CreateCustomer(ctx, &c); err != nil {
			return storageError(fmt.Sprintf("seed customer %s", c.ID), err)
		}
	}
	return nil
}

// ListCustomers returns all customers in creation order.
func (l *Ledger) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	customers, err := l.storage.ListCustomers(ctx)
	if err != nil {
		return nil, storageError("list customers", err)
	}
	return customers, nil
}

// Overview summarizes every loan of a customer, newest first.
func (l *Ledger) Overview(ctx context.Context, customerID string) (*models.AccountOverview, error) {
	loans, err := l.storage.GetLoansForCustomer(ctx, customerID)
	if err != nil {
		return nil, storageError("list loans", err)
	}
	if len(loans) == 0 {
		return nil, fmt.Errorf("customer %s: %w", customerID, ErrNoLoansFound)
	}

	overview := &models.AccountOverview{
		CustomerID: customerID,
		TotalLoans: len(loans),
		Loans:      make([]*models.LoanSummary, 0, len(loans)),
	}
	for _, loan := range loans {
		paid, err := l.TotalPaid(ctx, loan.ID)
		if err != nil {
			return nil, err
		}
		view := Derive(loan, paid)
		overview.Loans = append(overview.Loans, &models.LoanSummary{
			LoanID:        loan.ID,
			Principal:     loan.Principal,
			TotalAmount:   loan.TotalPayable,
			TotalInterest: loan.TotalInterest(),
			EMIAmount:     loan.MonthlyEMI,
			AmountPaid:    view.AmountPaid,
			EMIsLeft:      view.EMIsLeft,
		})
	}
	return overview, nil
}
