package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/model"
)

// RateStore persists tax rates.
type RateStore interface {
	ListTaxRates(ctx context.Context) ([]model.TaxRate, error)
	GetTaxRate(ctx context.Context, id int64) (model.TaxRate, error)
	CreateTaxRate(ctx context.Context, rate *model.TaxRate) error
	SetTaxRateActive(ctx context.Context, id int64, active bool) error
}

// TaxRates manages the flat-percentage rates offered for surcharges.
type TaxRates struct {
	store RateStore
	log   zerolog.Logger
}

// NewTaxRates creates a TaxRates service.
func NewTaxRates(store RateStore, log zerolog.Logger) *TaxRates {
	return &TaxRates{store: store, log: log}
}

// List returns all tax rates, active or not.
func (t *TaxRates) List(ctx context.Context) ([]model.TaxRate, error) {
	return t.store.ListTaxRates(ctx)
}

// Create adds an active tax rate. The rate is a percentage from 0 to 100.
func (t *TaxRates) Create(ctx context.Context, name string, rate decimal.Decimal) (model.TaxRate, error) {
	var errs model.ValidationErrors
	name = strings.TrimSpace(name)
	if name == "" {
		errs = append(errs, model.ValidationError{Field: "name", Message: "is required"})
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		errs = append(errs, model.ValidationError{Field: "rate", Message: fmt.Sprintf("%s must be between 0 and 100", rate)})
	}
	if len(errs) > 0 {
		return model.TaxRate{}, errs
	}

	tr := model.TaxRate{Name: name, Rate: rate, Active: true}
	if err := t.store.CreateTaxRate(ctx, &tr); err != nil {
		return model.TaxRate{}, fmt.Errorf("creating tax rate: %w", err)
	}
	t.log.Info().Int64("tax_rate_id", tr.ID).Str("name", tr.Name).Str("rate", tr.Rate.String()).Msg("tax rate created")
	return tr, nil
}

// SetActive turns a rate on or off. Inactive rates are refused by
// PostJournalEntry but remain on historical lines.
func (t *TaxRates) SetActive(ctx context.Context, id int64, active bool) (model.TaxRate, error) {
	if err := t.store.SetTaxRateActive(ctx, id, active); err != nil {
		return model.TaxRate{}, err
	}
	tr, err := t.store.GetTaxRate(ctx, id)
	if err != nil {
		return model.TaxRate{}, err
	}
	t.log.Info().Int64("tax_rate_id", id).Bool("active", active).Msg("tax rate updated")
	return tr, nil
}
