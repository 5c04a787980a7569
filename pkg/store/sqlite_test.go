package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test_store.db"))
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testLoan(customerID string, createdAt time.Time) *models.Loan {
	return &models.Loan{
		ID:           uuid.New(),
		CustomerID:   customerID,
		Principal:    decimal.RequireFromString("100000.00"),
		InterestRate: decimal.RequireFromString("10.5"),
		TermYears:    2,
		TotalPayable: decimal.RequireFromString("121000.00"),
		MonthlyEMI:   decimal.RequireFromString("5041.67"),
		CreatedAt:    createdAt,
	}
}

func TestSQLiteStore_CreateAndGetLoan(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	loan := testLoan("cust_test", time.Now())
	require.NoError(t, s.CreateLoan(ctx, loan))

	fetched, err := s.GetLoan(ctx, loan.ID)
	require.NoError(t, err)

	assert.Equal(t, loan.ID, fetched.ID)
	assert.Equal(t, loan.CustomerID, fetched.CustomerID)
	assert.True(t, loan.Principal.Equal(fetched.Principal), "principal %s", fetched.Principal)
	assert.True(t, loan.InterestRate.Equal(fetched.InterestRate), "rate %s", fetched.InterestRate)
	assert.True(t, loan.TotalPayable.Equal(fetched.TotalPayable), "total %s", fetched.TotalPayable)
	assert.True(t, loan.MonthlyEMI.Equal(fetched.MonthlyEMI), "emi %s", fetched.MonthlyEMI)
	assert.Equal(t, 2, fetched.TermYears)
	assert.WithinDuration(t, loan.CreatedAt, fetched.CreatedAt, time.Millisecond)
}

func TestSQLiteStore_GetLoanNotFound(t *testing.T) {
	s := newFileStore(t)

	_, err := s.GetLoan(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_LoansForCustomerNewestFirst(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := testLoan("CUST001", base)
	newer := testLoan("CUST001", base.Add(time.Hour))
	other := testLoan("CUST002", base.Add(2*time.Hour))
	for _, l := range []*models.Loan{older, newer, other} {
		require.NoError(t, s.CreateLoan(ctx, l))
	}

	loans, err := s.GetLoansForCustomer(ctx, "CUST001")
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, newer.ID, loans[0].ID)
	assert.Equal(t, older.ID, loans[1].ID)

	loans, err = s.GetLoansForCustomer(ctx, "CUST404")
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestSQLiteStore_Payments(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	loan := testLoan("CUST001", base)
	require.NoError(t, s.CreateLoan(ctx, loan))

	sum, err := s.SumPaymentsForLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	amounts := []string{"5041.67", "0.10", "0.20"}
	var ids []uuid.UUID
	for i, amt := range amounts {
		p := &models.Payment{
			ID:         uuid.New(),
			LoanID:     loan.ID,
			Amount:     decimal.RequireFromString(amt),
			Kind:       models.PaymentKindEMI,
			RecordedAt: base.Add(time.Duration(i+1) * time.Minute),
		}
		require.NoError(t, s.CreatePayment(ctx, p))
		ids = append(ids, p.ID)
	}

	payments, err := s.GetPaymentsForLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.Equal(t, ids[2], payments[0].ID)
	assert.Equal(t, ids[0], payments[2].ID)
	assert.Equal(t, models.PaymentKindEMI, payments[0].Kind)
	assert.Equal(t, loan.ID, payments[0].LoanID)

	// 0.10 + 0.20 must not pick up floating point noise.
	sum, err = s.SumPaymentsForLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, "5041.97", sum.String())
}

func TestSQLiteStore_PaymentsSameInstantKeepInsertOrder(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	loan := testLoan("CUST001", at)
	require.NoError(t, s.CreateLoan(ctx, loan))

	first := &models.Payment{ID: uuid.New(), LoanID: loan.ID, Amount: decimal.NewFromInt(1), Kind: models.PaymentKindEMI, RecordedAt: at}
	second := &models.Payment{ID: uuid.New(), LoanID: loan.ID, Amount: decimal.NewFromInt(2), Kind: models.PaymentKindLumpSum, RecordedAt: at}
	require.NoError(t, s.CreatePayment(ctx, first))
	require.NoError(t, s.CreatePayment(ctx, second))

	payments, err := s.GetPaymentsForLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, second.ID, payments[0].ID)
	assert.Equal(t, first.ID, payments[1].ID)
}

func TestSQLiteStore_PaymentRequiresLoan(t *testing.T) {
	s := newFileStore(t)

	err := s.CreatePayment(context.Background(), &models.Payment{
		ID:         uuid.New(),
		LoanID:     uuid.New(),
		Amount:     decimal.NewFromInt(10),
		Kind:       models.PaymentKindEMI,
		RecordedAt: time.Now(),
	})
	assert.Error(t, err)
}

func TestSQLiteStore_Customers(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{ID: "CUST002", Name: "Jane Smith", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{ID: "CUST001", Name: "John Doe", CreatedAt: base}))
	// Existing rows are kept as they are.
	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{ID: "CUST001", Name: "Someone Else", CreatedAt: base}))

	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "CUST001", customers[0].ID)
	assert.Equal(t, "John Doe", customers[0].Name)
	assert.Equal(t, "CUST002", customers[1].ID)
}

func TestSQLiteStore_MemoryIsIsolated(t *testing.T) {
	ctx := context.Background()
	a, err := NewSQLiteStore(MemoryDSN)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSQLiteStore(MemoryDSN)
	require.NoError(t, err)
	defer b.Close()

	loan := testLoan("CUST001", time.Now())
	require.NoError(t, a.CreateLoan(ctx, loan))

	_, err = b.GetLoan(ctx, loan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, a.Ping(ctx))
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	loan := testLoan("CUST001", time.Now())
	require.NoError(t, s.CreateLoan(ctx, loan))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.GetLoan(ctx, loan.ID)
	assert.NoError(t, err)
}
