package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines the persistence operations for customers, loans and payments.
// Loans and payments are insert-only; nothing derived from payments is stored.
type Storage interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	ListCustomers(ctx context.Context) ([]*models.Customer, error)

	CreateLoan(ctx context.Context, loan *models.Loan) error
	GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	// GetLoansForCustomer returns the customer's loans, most recently created first.
	GetLoansForCustomer(ctx context.Context, customerID string) ([]*models.Loan, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	// GetPaymentsForLoan returns the loan's payments, most recently recorded first.
	GetPaymentsForLoan(ctx context.Context, loanID uuid.UUID) ([]*models.Payment, error)
	SumPaymentsForLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error)

	Ping(ctx context.Context) error
	Close() error
}
