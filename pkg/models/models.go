package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        string    `json:"customer_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Loan holds the contract terms. TotalPayable and MonthlyEMI are fixed at creation.
type Loan struct {
	ID           uuid.UUID       `json:"loan_id"`
	CustomerID   string          `json:"customer_id"` // Not validated against customers
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"` // Annual percentage, e.g. 10 for 10%
	TermYears    int             `json:"loan_period_years"`
	TotalPayable decimal.Decimal `json:"total_amount"`
	MonthlyEMI   decimal.Decimal `json:"monthly_emi"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TotalInterest is what the customer pays on top of the principal.
func (l *Loan) TotalInterest() decimal.Decimal {
	return l.TotalPayable.Sub(l.Principal).Round(2)
}

type PaymentKind string

const (
	PaymentKindEMI     PaymentKind = "EMI"
	PaymentKindLumpSum PaymentKind = "LUMP_SUM"
)

// Valid reports whether k is one of the recognised payment kinds.
func (k PaymentKind) Valid() bool {
	return k == PaymentKindEMI || k == PaymentKindLumpSum
}

type Payment struct {
	ID         uuid.UUID       `json:"transaction_id"`
	LoanID     uuid.UUID       `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       PaymentKind     `json:"type"`
	RecordedAt time.Time       `json:"date"`
}

type LoanStatus string

const (
	LoanStatusActive LoanStatus = "ACTIVE"
	LoanStatusClosed LoanStatus = "CLOSED"
)

// Quote is the outcome of pricing a simple-interest loan.
type Quote struct {
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalPayable  decimal.Decimal `json:"total_amount_payable"`
	MonthlyEMI    decimal.Decimal `json:"monthly_emi"`
}

// LedgerView combines a loan's terms with figures derived from its payments.
type LedgerView struct {
	Loan         *Loan
	AmountPaid   decimal.Decimal
	Balance      decimal.Decimal
	EMIsLeft     int64
	Status       LoanStatus
	Transactions []*Payment
}

// LoanSummary is one entry of an account overview.
type LoanSummary struct {
	LoanID        uuid.UUID       `json:"loan_id"`
	Principal     decimal.Decimal `json:"principal"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	EMIAmount     decimal.Decimal `json:"emi_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	EMIsLeft      int64           `json:"emis_left"`
}

type AccountOverview struct {
	CustomerID string         `json:"customer_id"`
	TotalLoans int            `json:"total_loans"`
	Loans      []*LoanSummary `json:"loans"`
}
