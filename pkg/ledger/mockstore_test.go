package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/mcclellann/simpleloan/pkg/store"
	"github.com/shopspring/decimal"
)

// MockStore is a simple in-memory implementation of the Storage interface for testing.
type MockStore struct {
	mu        sync.Mutex
	customers []*models.Customer
	loans     []*models.Loan
	payments  []*models.Payment

	createLoanErr    error
	createPaymentErr error
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateCustomer(_ context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if existing.ID == c.ID {
			return nil
		}
	}
	cp := *c
	m.customers = append(m.customers, &cp)
	return nil
}

func (m *MockStore) ListCustomers(context.Context) ([]*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*models.Customer{}, m.customers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) CreateLoan(_ context.Context, loan *models.Loan) error {
	if m.createLoanErr != nil {
		return m.createLoanErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans = append(m.loans, loan)
	return nil
}

func (m *MockStore) GetLoan(_ context.Context, id uuid.UUID) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.loans {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("loan %s: %w", id, store.ErrNotFound)
}

func (m *MockStore) GetLoansForCustomer(_ context.Context, customerID string) ([]*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loans := []*models.Loan{}
	for i := len(m.loans) - 1; i >= 0; i-- {
		if m.loans[i].CustomerID == customerID {
			loans = append(loans, m.loans[i])
		}
	}
	sort.SliceStable(loans, func(i, j int) bool { return loans[i].CreatedAt.After(loans[j].CreatedAt) })
	return loans, nil
}

func (m *MockStore) CreatePayment(_ context.Context, p *models.Payment) error {
	if m.createPaymentErr != nil {
		return m.createPaymentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, p)
	return nil
}

func (m *MockStore) GetPaymentsForLoan(_ context.Context, loanID uuid.UUID) ([]*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payments := []*models.Payment{}
	for i := len(m.payments) - 1; i >= 0; i-- {
		if m.payments[i].LoanID == loanID {
			payments = append(payments, m.payments[i])
		}
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].RecordedAt.After(payments[j].RecordedAt) })
	return payments, nil
}

func (m *MockStore) SumPaymentsForLoan(_ context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, p := range m.payments {
		if p.LoanID == loanID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (m *MockStore) Ping(context.Context) error { return nil }

func (m *MockStore) Close() error { return nil }
