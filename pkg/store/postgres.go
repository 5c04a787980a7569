package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/shopspring/decimal"
)

// PostgresStore implements Storage on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, verifies the connection and initializes the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	poolCfg.MaxConnLifetime = 1 * time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		seq BIGSERIAL
	);
	CREATE TABLE IF NOT EXISTS loans (
		loan_id UUID PRIMARY KEY,
		customer_id TEXT NOT NULL,
		principal_amount NUMERIC(18,2) NOT NULL,
		total_amount NUMERIC(18,2) NOT NULL,
		interest_rate NUMERIC(9,4) NOT NULL,
		loan_period_years INTEGER NOT NULL,
		monthly_emi NUMERIC(18,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		seq BIGSERIAL
	);
	CREATE INDEX IF NOT EXISTS idx_loans_customer ON loans(customer_id);
	CREATE TABLE IF NOT EXISTS payments (
		payment_id UUID PRIMARY KEY,
		loan_id UUID NOT NULL REFERENCES loans(loan_id),
		amount NUMERIC(18,2) NOT NULL,
		payment_type TEXT NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL,
		seq BIGSERIAL
	);
	CREATE INDEX IF NOT EXISTS idx_payments_loan ON payments(loan_id);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO customers (customer_id, name, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (customer_id) DO NOTHING`,
		customer.ID, customer.Name, customer.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	rows, err := s.pool.Query(ctx, `SELECT customer_id, name, created_at FROM customers ORDER BY created_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

func (s *PostgresStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO loans (loan_id, customer_id, principal_amount, total_amount, interest_rate, loan_period_years, monthly_emi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		loan.ID, loan.CustomerID, loan.Principal, loan.TotalPayable, loan.InterestRate, loan.TermYears, loan.MonthlyEMI, loan.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

const pgLoanColumns = `loan_id, customer_id, principal_amount, total_amount, interest_rate, loan_period_years, monthly_emi, created_at`

func (s *PostgresStore) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgLoanColumns+` FROM loans WHERE loan_id = $1`, id)
	loan, err := scanPgLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loan %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return loan, nil
}

func (s *PostgresStore) GetLoansForCustomer(ctx context.Context, customerID string) ([]*models.Loan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgLoanColumns+` FROM loans WHERE customer_id = $1 ORDER BY created_at DESC, seq DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("find loans by customer: %w", err)
	}
	defer rows.Close()

	loans := []*models.Loan{}
	for rows.Next() {
		loan, err := scanPgLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func scanPgLoan(row pgx.Row) (*models.Loan, error) {
	var loan models.Loan
	err := row.Scan(&loan.ID, &loan.CustomerID, &loan.Principal, &loan.TotalPayable, &loan.InterestRate, &loan.TermYears, &loan.MonthlyEMI, &loan.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (s *PostgresStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO payments (payment_id, loan_id, amount, payment_type, payment_date)
		VALUES ($1, $2, $3, $4, $5)`,
		payment.ID, payment.LoanID, payment.Amount, string(payment.Kind), payment.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPaymentsForLoan(ctx context.Context, loanID uuid.UUID) ([]*models.Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payment_id, loan_id, amount, payment_type, payment_date FROM payments
		WHERE loan_id = $1 ORDER BY payment_date DESC, seq DESC`, loanID)
	if err != nil {
		return nil, fmt.Errorf("find payments by loan: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		var p models.Payment
		var kind string
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &kind, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Kind = models.PaymentKind(kind)
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

func (s *PostgresStore) SumPaymentsForLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE loan_id = $1`, loanID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
