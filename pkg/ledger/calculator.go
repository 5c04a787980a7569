package ledger

import (
	"fmt"

	"github.com/mcclellann/simpleloan/pkg/models"
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision every surfaced currency figure is rounded to.
const CurrencyPlaces = 2

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// RoundCurrency rounds d to cents, half away from zero.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Quote prices a simple-interest loan:
//
//	interest = principal * years * rate/100
//	total    = principal + interest
//	emi      = total / (years * 12)
//
// The principal is taken to the cent first so total == principal + interest holds exactly.
func Quote(principal, ratePercent decimal.Decimal, termYears int) (models.Quote, error) {
	principal = RoundCurrency(principal)
	if !principal.IsPositive() {
		return models.Quote{}, fmt.Errorf("%w: principal must be positive", ErrInvalidTerms)
	}
	if !ratePercent.IsPositive() {
		return models.Quote{}, fmt.Errorf("%w: interest rate must be positive", ErrInvalidTerms)
	}
	if termYears < 1 {
		return models.Quote{}, fmt.Errorf("%w: loan period must be at least one year", ErrInvalidTerms)
	}

	years := decimal.NewFromInt(int64(termYears))
	interest := principal.Mul(years).Mul(ratePercent).Div(hundred)
	total := principal.Add(interest)
	emi := RoundCurrency(total.Div(years.Mul(monthsInYear)))
	if !emi.IsPositive() {
		return models.Quote{}, fmt.Errorf("%w: monthly installment rounds to zero", ErrInvalidTerms)
	}

	roundedInterest := RoundCurrency(interest)
	return models.Quote{
		TotalInterest: roundedInterest,
		TotalPayable:  principal.Add(roundedInterest),
		MonthlyEMI:    emi,
	}, nil
}

// EMIsLeft is the number of installments needed to clear balance, never negative.
func EMIsLeft(balance, emi decimal.Decimal) int64 {
	if !balance.IsPositive() || !emi.IsPositive() {
		return 0
	}
	return balance.Div(emi).Ceil().IntPart()
}
