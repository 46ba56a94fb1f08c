package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/model"
)

// Tolerance is the largest debit/credit difference an entry may carry.
var Tolerance = decimal.NewFromFloat(0.01)

// MinLines is the fewest lines a journal entry may have.
const MinLines = 2

// AccountLookup finds accounts in the chart.
type AccountLookup interface {
	Get(id int64) (model.Account, bool)
}

// ValidateEntry checks an entry before it is stored: a description and a
// date, at least two lines, non-negative two-decimal amounts against known
// accounts, and debits equal to credits within Tolerance.
func ValidateEntry(entry model.Entry, accounts AccountLookup) model.ValidationErrors {
	errs := validateHeader(entry)
	if len(entry.Lines) < MinLines {
		errs = append(errs, model.ValidationError{
			Field:   "lines",
			Message: fmt.Sprintf("journal entry needs at least %d lines, got %d", MinLines, len(entry.Lines)),
		})
	}

	for i, line := range entry.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		errs = append(errs, validateAmount(field+".debit", line.Debit)...)
		errs = append(errs, validateAmount(field+".credit", line.Credit)...)
		if _, ok := accounts.Get(line.AccountID); !ok {
			errs = append(errs, model.ValidationError{
				Field:   field + ".account_id",
				Message: fmt.Sprintf("unknown account %d", line.AccountID),
			})
		}
	}

	if err := checkBalanced(entry.Lines); err != nil {
		errs = append(errs, *err)
	}
	return errs
}

func validateHeader(entry model.Entry) model.ValidationErrors {
	var errs model.ValidationErrors
	if strings.TrimSpace(entry.Description) == "" {
		errs = append(errs, model.ValidationError{Field: "description", Message: "is required"})
	}
	if entry.Date.IsZero() {
		errs = append(errs, model.ValidationError{Field: "date", Message: "is required"})
	}
	return errs
}

var hundred = decimal.NewFromInt(100)

func validateAmount(field string, amount decimal.Decimal) model.ValidationErrors {
	var errs model.ValidationErrors
	if amount.IsNegative() {
		errs = append(errs, model.ValidationError{Field: field, Message: fmt.Sprintf("%s must not be negative", amount)})
	}
	if !amount.Mul(hundred).Equal(amount.Mul(hundred).Truncate(0)) {
		errs = append(errs, model.ValidationError{Field: field, Message: fmt.Sprintf("%s has more than 2 decimal places", amount)})
	}
	return errs
}

func checkBalanced(lines []model.Line) *model.ValidationError {
	debit, credit := model.SumLines(lines)
	if debit.Sub(credit).Abs().GreaterThan(Tolerance) {
		return &model.ValidationError{
			Field:   "lines",
			Message: fmt.Sprintf("Debits must equal credits (debits %s, credits %s)", debit.StringFixed(2), credit.StringFixed(2)),
		}
	}
	return nil
}
