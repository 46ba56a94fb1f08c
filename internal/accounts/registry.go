package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/crania/internal/model"
)

// Store persists accounts. Accounts are never deleted.
type Store interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
	CreateAccount(ctx context.Context, acct *model.Account) error
	UpdateAccount(ctx context.Context, acct model.Account) error
	AccountHasLines(ctx context.Context, id int64) (bool, error)
}

// Registry manages the persisted chart of accounts.
type Registry struct {
	store Store
	log   zerolog.Logger
}

// NewRegistry creates a Registry.
func NewRegistry(store Store, log zerolog.Logger) *Registry {
	return &Registry{store: store, log: log}
}

// Load reads the current chart into an in-memory Service.
func (r *Registry) Load(ctx context.Context) (*Service, error) {
	accts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return NewService(accts), nil
}

// CreateParams holds the fields of a new account.
type CreateParams struct {
	Code        string
	Name        string
	Type        model.AccountType
	ParentID    int64
	Description string
}

// Create validates and stores a new, active account.
func (r *Registry) Create(ctx context.Context, params CreateParams) (model.Account, error) {
	chart, err := r.Load(ctx)
	if err != nil {
		return model.Account{}, err
	}

	acct := model.Account{
		Code:        strings.TrimSpace(params.Code),
		Name:        strings.TrimSpace(params.Name),
		Type:        params.Type,
		ParentID:    params.ParentID,
		Active:      true,
		Description: params.Description,
	}
	if verrs := validateAccount(acct, chart); len(verrs) > 0 {
		return model.Account{}, verrs
	}

	if err := r.store.CreateAccount(ctx, &acct); err != nil {
		return model.Account{}, fmt.Errorf("creating account: %w", err)
	}
	r.log.Info().Int64("account_id", acct.ID).Str("code", acct.Code).Str("type", string(acct.Type)).Msg("account created")
	return acct, nil
}

// UpdateParams holds optional changes; nil fields are left alone.
type UpdateParams struct {
	Code        *string
	Name        *string
	Type        *model.AccountType
	ParentID    *int64
	Active      *bool
	Description *string
}

// Update applies changes to an account. The type may only change while no
// line references the account, since it decides historical sign conventions.
func (r *Registry) Update(ctx context.Context, id int64, params UpdateParams) (model.Account, error) {
	chart, err := r.Load(ctx)
	if err != nil {
		return model.Account{}, err
	}
	acct, ok := chart.Get(id)
	if !ok {
		return model.Account{}, model.NotFoundError{Kind: "account", ID: id}
	}

	if params.Code != nil {
		acct.Code = strings.TrimSpace(*params.Code)
	}
	if params.Name != nil {
		acct.Name = strings.TrimSpace(*params.Name)
	}
	if params.ParentID != nil {
		acct.ParentID = *params.ParentID
	}
	if params.Active != nil {
		acct.Active = *params.Active
	}
	if params.Description != nil {
		acct.Description = *params.Description
	}
	if params.Type != nil && *params.Type != acct.Type {
		used, err := r.store.AccountHasLines(ctx, id)
		if err != nil {
			return model.Account{}, fmt.Errorf("checking account usage: %w", err)
		}
		if used {
			return model.Account{}, model.StateError{Kind: "account", ID: id, Message: "type cannot change once lines reference the account"}
		}
		acct.Type = *params.Type
	}

	if verrs := validateAccount(acct, chart); len(verrs) > 0 {
		return model.Account{}, verrs
	}

	if err := r.store.UpdateAccount(ctx, acct); err != nil {
		return model.Account{}, fmt.Errorf("updating account: %w", err)
	}
	r.log.Info().Int64("account_id", acct.ID).Str("code", acct.Code).Bool("active", acct.Active).Msg("account updated")
	return acct, nil
}

// Deactivate hides an account from new postings. History keeps referencing it.
func (r *Registry) Deactivate(ctx context.Context, id int64) (model.Account, error) {
	inactive := false
	return r.Update(ctx, id, UpdateParams{Active: &inactive})
}

// Import creates accounts from chart rows in order, skipping codes that
// already exist. Parents must exist or appear earlier. Returns the number
// of accounts created.
func (r *Registry) Import(ctx context.Context, rows []ChartRow) (int, error) {
	chart, err := r.Load(ctx)
	if err != nil {
		return 0, err
	}
	existing := chart.All()

	created := 0
	for i, row := range rows {
		if _, ok := chart.ByCode(row.Code); ok {
			continue
		}
		var parentID int64
		if row.ParentCode != "" {
			parent, ok := chart.ByCode(row.ParentCode)
			if !ok {
				return created, model.Invalid(fmt.Sprintf("row %d", i+1), "unknown parent code %q", row.ParentCode)
			}
			parentID = parent.ID
		}

		acct := model.Account{
			Code:        strings.TrimSpace(row.Code),
			Name:        strings.TrimSpace(row.Name),
			Type:        row.Type,
			ParentID:    parentID,
			Active:      row.Active,
			Description: row.Description,
		}
		if verrs := validateAccount(acct, chart); len(verrs) > 0 {
			return created, fmt.Errorf("row %d: %w", i+1, verrs)
		}
		if err := r.store.CreateAccount(ctx, &acct); err != nil {
			return created, fmt.Errorf("creating account %s: %w", acct.Code, err)
		}
		existing = append(existing, acct)
		chart = NewService(existing)
		created++
	}
	if created > 0 {
		r.log.Info().Int("count", created).Msg("accounts imported")
	}
	return created, nil
}

// Seed installs the default chart into an empty book. Reports whether
// anything was seeded.
func (r *Registry) Seed(ctx context.Context) (bool, error) {
	accts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return false, fmt.Errorf("listing accounts: %w", err)
	}
	if len(accts) > 0 {
		return false, nil
	}
	if _, err := r.Import(ctx, DefaultChart()); err != nil {
		return false, fmt.Errorf("seeding chart of accounts: %w", err)
	}
	return true, nil
}

func validateAccount(acct model.Account, chart *Service) model.ValidationErrors {
	var errs model.ValidationErrors
	if acct.Name == "" {
		errs = append(errs, model.ValidationError{Field: "name", Message: "is required"})
	}
	if !acct.Type.Valid() {
		errs = append(errs, model.ValidationError{Field: "type", Message: fmt.Sprintf("unknown account type %q", acct.Type)})
	}
	if acct.Code != "" {
		if other, ok := chart.ByCode(acct.Code); ok && other.ID != acct.ID {
			errs = append(errs, model.ValidationError{Field: "code", Message: fmt.Sprintf("code %s already used by %s", acct.Code, other.Name)})
		}
	}
	if acct.ParentID != 0 {
		switch {
		case acct.ID != 0 && acct.ParentID == acct.ID:
			errs = append(errs, model.ValidationError{Field: "parent_id", Message: "account cannot be its own parent"})
		case !chart.Exists(acct.ParentID):
			errs = append(errs, model.ValidationError{Field: "parent_id", Message: fmt.Sprintf("unknown parent account %d", acct.ParentID)})
		}
	}
	return errs
}
