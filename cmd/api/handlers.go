package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mcclellann/simpleloan/pkg/ledger"
	"github.com/mcclellann/simpleloan/pkg/models"
)

// statusFor maps ledger errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidTerms), errors.Is(err, ledger.ErrInvalidPayment):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrLoanNotFound), errors.Is(err, ledger.ErrNoLoansFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err to the client. Internal errors are logged and replaced by fallback.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		s.logger.Error(fallback, "path", r.URL.Path, "error", err)
		writeError(w, status, fallback)
	case errors.Is(err, ledger.ErrLoanNotFound):
		writeError(w, status, "Loan not found")
	case errors.Is(err, ledger.ErrNoLoansFound):
		writeError(w, status, "No loans found for this customer")
	default:
		writeError(w, status, err.Error())
	}
}

// loanIDFromPath parses the loan_id route variable. A malformed ID cannot name
// an existing loan, so it is reported as not found.
func loanIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["loan_id"])
	if err != nil {
		return uuid.Nil, ledger.ErrLoanNotFound
	}
	return id, nil
}

func (s *Server) createLoanHandler(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.missingFields() {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	loan, err := s.ledger.CreateLoan(r.Context(), req.CustomerID, req.LoanAmount, req.LoanPeriodYears, req.InterestRateYearly)
	if err != nil {
		s.fail(w, r, err, "Failed to create loan")
		return
	}
	s.metrics.ObserveLoan(loan.Principal)

	writeJSON(w, http.StatusCreated, createLoanResponse{
		LoanID:             loan.ID.String(),
		CustomerID:         loan.CustomerID,
		TotalAmountPayable: loan.TotalPayable,
		MonthlyEMI:         loan.MonthlyEMI,
		TotalInterest:      loan.TotalInterest(),
	})
}

func (s *Server) recordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	loanID, err := loanIDFromPath(r)
	if err != nil {
		s.fail(w, r, err, "Failed to record payment")
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	payment, err := s.ledger.RecordPayment(r.Context(), loanID, req.Amount, models.PaymentKind(req.PaymentType))
	if err != nil {
		s.fail(w, r, err, "Failed to record payment")
		return
	}
	s.metrics.ObservePayment(string(payment.Kind), payment.Amount)

	view, err := s.ledger.LedgerView(r.Context(), loanID)
	if err != nil {
		s.fail(w, r, err, "Failed to get loan status")
		return
	}

	writeJSON(w, http.StatusCreated, recordPaymentResponse{
		PaymentID:        payment.ID.String(),
		LoanID:           loanID.String(),
		Message:          "Payment recorded successfully",
		RemainingBalance: view.Balance,
		EMIsLeft:         view.EMIsLeft,
	})
}

func (s *Server) getLedgerHandler(w http.ResponseWriter, r *http.Request) {
	loanID, err := loanIDFromPath(r)
	if err != nil {
		s.fail(w, r, err, "Failed to get ledger")
		return
	}

	view, err := s.ledger.LedgerView(r.Context(), loanID)
	if err != nil {
		s.fail(w, r, err, "Failed to get ledger")
		return
	}

	txs := make([]transactionResponse, 0, len(view.Transactions))
	for _, p := range view.Transactions {
		txs = append(txs, transactionResponse{
			TransactionID: p.ID.String(),
			Date:          p.RecordedAt,
			Amount:        ledger.RoundCurrency(p.Amount),
			Type:          string(p.Kind),
		})
	}

	writeJSON(w, http.StatusOK, ledgerResponse{
		LoanID:          view.Loan.ID.String(),
		CustomerID:      view.Loan.CustomerID,
		Principal:       view.Loan.Principal,
		TotalAmount:     view.Loan.TotalPayable,
		MonthlyEMI:      view.Loan.MonthlyEMI,
		InterestRate:    view.Loan.InterestRate,
		LoanPeriodYears: view.Loan.TermYears,
		AmountPaid:      view.AmountPaid,
		BalanceAmount:   view.Balance,
		EMIsLeft:        view.EMIsLeft,
		Status:          string(view.Status),
		Transactions:    txs,
	})
}

func (s *Server) accountOverviewHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := s.ledger.Overview(r.Context(), mux.Vars(r)["customer_id"])
	if err != nil {
		s.fail(w, r, err, "Failed to get account overview")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) listCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := s.ledger.ListCustomers(r.Context())
	if err != nil {
		s.fail(w, r, err, "Failed to list customers")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.storage.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "UNAVAILABLE", Message: "Database unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Message: "Bank Lending System API is running"})
}
