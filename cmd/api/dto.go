package main

import (
	"time"

	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createLoanRequest struct {
	CustomerID         string          `json:"customer_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	LoanPeriodYears    int             `json:"loan_period_years"`
	InterestRateYearly decimal.Decimal `json:"interest_rate_yearly"`
}

func (r createLoanRequest) missingFields() bool {
	return r.CustomerID == "" || r.LoanAmount.IsZero() || r.LoanPeriodYears == 0 || r.InterestRateYearly.IsZero()
}

type createLoanResponse struct {
	LoanID             string          `json:"loan_id"`
	CustomerID         string          `json:"customer_id"`
	TotalAmountPayable decimal.Decimal `json:"total_amount_payable"`
	MonthlyEMI         decimal.Decimal `json:"monthly_emi"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
}

type recordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
}

type recordPaymentResponse struct {
	PaymentID        string          `json:"payment_id"`
	LoanID           string          `json:"loan_id"`
	Message          string          `json:"message"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	EMIsLeft         int64           `json:"emis_left"`
}

type transactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
}

type ledgerResponse struct {
	LoanID          string                `json:"loan_id"`
	CustomerID      string                `json:"customer_id"`
	Principal       decimal.Decimal       `json:"principal"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	MonthlyEMI      decimal.Decimal       `json:"monthly_emi"`
	InterestRate    decimal.Decimal       `json:"interest_rate"`
	LoanPeriodYears int                   `json:"loan_period_years"`
	AmountPaid      decimal.Decimal       `json:"amount_paid"`
	BalanceAmount   decimal.Decimal       `json:"balance_amount"`
	EMIsLeft        int64                 `json:"emis_left"`
	Status          string                `json:"status"`
	Transactions    []transactionResponse `json:"transactions"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
