package accounts

import (
	"sort"
	"strings"

	"github.com/cleared-dev/crania/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[int64]model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts. All() returns them
// sorted by (code, name).
func NewService(accounts []model.Account) *Service {
	sorted := make([]model.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	byID := make(map[int64]model.Account, len(sorted))
	byCode := make(map[string]model.Account, len(sorted))
	for _, a := range sorted {
		byID[a.ID] = a
		if a.Code != "" {
			byCode[a.Code] = a
		}
	}
	return &Service{accounts: sorted, byID: byID, byCode: byCode}
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Active returns the accounts offered for new postings.
func (s *Service) Active() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Active {
			result = append(result, a)
		}
	}
	return result
}

// Get returns an account by ID.
func (s *Service) Get(id int64) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int64) bool {
	_, ok := s.byID[id]
	return ok
}

// TypeOf returns the type of an account.
func (s *Service) TypeOf(id int64) (model.AccountType, bool) {
	a, ok := s.byID[id]
	return a.Type, ok
}

// ByCode returns an account by its code.
func (s *Service) ByCode(code string) (model.Account, bool) {
	a, ok := s.byCode[strings.TrimSpace(code)]
	return a, ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// LowestCode returns the account of the given type that sorts first.
func (s *Service) LowestCode(accountType model.AccountType) (model.Account, bool) {
	for _, a := range s.accounts {
		if a.Type == accountType {
			return a, true
		}
	}
	return model.Account{}, false
}

// Resolve finds an account by code, then by case-insensitive name. The
// error for an unknown reference suggests close matches.
func (s *Service) Resolve(ref string) (model.Account, error) {
	ref = strings.TrimSpace(ref)
	if a, ok := s.ByCode(ref); ok {
		return a, nil
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Name, ref) {
			return a, nil
		}
	}
	return model.Account{}, &UnknownAccountError{Ref: ref, Suggestions: s.Suggest(ref, 3)}
}

// Rows converts the chart to file rows with parents referenced by code.
func (s *Service) Rows() []ChartRow {
	rows := make([]ChartRow, 0, len(s.accounts))
	for _, a := range s.accounts {
		var parentCode string
		if p, ok := s.byID[a.ParentID]; ok {
			parentCode = p.Code
		}
		rows = append(rows, ChartRow{
			Code:        a.Code,
			Name:        a.Name,
			Type:        a.Type,
			ParentCode:  parentCode,
			Active:      a.Active,
			Description: a.Description,
		})
	}
	return rows
}

// DesignationCodes names the conventional accounts by code.
type DesignationCodes struct {
	Cash    string
	Tax     string
	Income  string
	Expense string
}

// Designations resolves codes into account ids. Cash, income and expense fall
// back to the lowest-code account of their type; a missing tax account stays
// undesignated so the surcharge is skipped.
func (s *Service) Designations(codes DesignationCodes) model.Designations {
	var d model.Designations
	d.CashAccountID = s.designate(codes.Cash, model.AccountTypeAsset, true)
	d.TaxAccountID = s.designate(codes.Tax, model.AccountTypeLiability, false)
	d.IncomeAccountID = s.designate(codes.Income, model.AccountTypeIncome, true)
	d.ExpenseAccountID = s.designate(codes.Expense, model.AccountTypeExpense, true)
	return d
}

func (s *Service) designate(code string, fallbackType model.AccountType, fallback bool) int64 {
	if a, ok := s.ByCode(code); ok && code != "" {
		return a.ID
	}
	if !fallback {
		return 0
	}
	if a, ok := s.LowestCode(fallbackType); ok {
		return a.ID
	}
	return 0
}
