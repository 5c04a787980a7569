package ledger

import (
	"errors"
	"fmt"

	"github.com/mcclellann/simpleloan/pkg/store"
)

var (
	ErrInvalidTerms   = errors.New("invalid loan terms")
	ErrInvalidPayment = errors.New("invalid payment")
	ErrLoanNotFound   = errors.New("loan not found")
	// ErrNoLoansFound covers both an unknown customer and a customer without loans.
	ErrNoLoansFound = errors.New("no loans found for this customer")
	ErrPersistence  = errors.New("persistence failure")
)

// storageError maps a store error onto the ledger taxonomy.
func storageError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrLoanNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
