package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cleared-dev/crania/internal/model"
)

func scanTaxRate(row interface{ Scan(...any) error }) (model.TaxRate, error) {
	var (
		r      model.TaxRate
		active int
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Rate, &active); err != nil {
		return model.TaxRate{}, err
	}
	r.Active = active != 0
	return r, nil
}

// ListTaxRates returns every tax rate ordered by name.
func (s *Store) ListTaxRates(ctx context.Context) ([]model.TaxRate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, rate, active FROM tax_rates ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TaxRate
	for rows.Next() {
		r, err := scanTaxRate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTaxRate returns one tax rate.
func (s *Store) GetTaxRate(ctx context.Context, id int64) (model.TaxRate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, rate, active FROM tax_rates WHERE id = ?`, id)
	r, err := scanTaxRate(row)
	if err == sql.ErrNoRows {
		return model.TaxRate{}, model.NotFoundError{Kind: "tax rate", ID: id}
	}
	return r, err
}

// CreateTaxRate inserts rate and sets its ID.
func (s *Store) CreateTaxRate(ctx context.Context, rate *model.TaxRate) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tax_rates(name, rate, active) VALUES (?, ?, ?)`,
		rate.Name, rate.Rate.String(), boolInt(rate.Active))
	if err != nil {
		return fmt.Errorf("inserting tax rate %q: %w", rate.Name, err)
	}
	rate.ID, err = res.LastInsertId()
	return err
}

// SetTaxRateActive turns a tax rate on or off.
func (s *Store) SetTaxRateActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tax_rates SET active = ? WHERE id = ?`, boolInt(active), id)
	if err != nil {
		return fmt.Errorf("updating tax rate %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NotFoundError{Kind: "tax rate", ID: id}
	}
	return nil
}
