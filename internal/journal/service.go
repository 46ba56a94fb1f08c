package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/model"
)

// Store persists entries. CreateEntry writes the entry and all of its lines
// atomically and fills in their ids.
type Store interface {
	CreateEntry(ctx context.Context, entry *model.Entry) error
	GetEntry(ctx context.Context, id int64) (model.Entry, error)
	ListEntries(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error)
	MarkVoid(ctx context.Context, id int64, at time.Time, reason string) error
	GetTaxRate(ctx context.Context, id int64) (model.TaxRate, error)
}

// ChartLoader loads the current chart of accounts.
type ChartLoader interface {
	Load(ctx context.Context) (*accounts.Service, error)
}

// Service posts, voids and retrieves entries.
type Service struct {
	store        Store
	charts       ChartLoader
	designations model.Designations
	now          func() time.Time
	log          zerolog.Logger
}

// NewService creates a journal Service. The designations name the cash,
// tax, income and expense accounts used by convention.
func NewService(store Store, charts ChartLoader, designations model.Designations, log zerolog.Logger) *Service {
	return &Service{
		store:        store,
		charts:       charts,
		designations: designations,
		now:          time.Now,
		log:          log,
	}
}

// Designations returns the accounts this service posts to by convention.
func (s *Service) Designations() model.Designations {
	return s.designations
}

// TransactionParams holds a simple income or expense transaction.
type TransactionParams struct {
	Date        time.Time // zero = today
	Description string
	Amount      decimal.Decimal
	Type        model.TxnType
	AccountID   int64 // income or expense side; 0 = designated default
	Reference   string
}

// PostTransaction records a simple transaction as a balanced two-line entry
// against the cash account: income debits cash and credits the income
// account, expense debits the expense account and credits cash.
func (s *Service) PostTransaction(ctx context.Context, params TransactionParams) (int64, error) {
	var errs model.ValidationErrors
	if params.Type != model.TxnIncome && params.Type != model.TxnExpense {
		errs = append(errs, model.ValidationError{Field: "type", Message: fmt.Sprintf("must be income or expense, got %q", params.Type)})
	}
	if params.Amount.IsNegative() {
		errs = append(errs, model.ValidationError{Field: "amount", Message: "must not be negative"})
	}

	cash := s.designations.CashAccountID
	category := params.AccountID
	if category == 0 {
		if params.Type == model.TxnIncome {
			category = s.designations.IncomeAccountID
		} else {
			category = s.designations.ExpenseAccountID
		}
	}
	if cash == 0 {
		errs = append(errs, model.ValidationError{Field: "cash", Message: "no cash account is designated"})
	}
	if category == 0 {
		errs = append(errs, model.ValidationError{Field: "account_id", Message: fmt.Sprintf("no %s account is designated", params.Type)})
	}
	if len(errs) > 0 {
		return 0, errs
	}

	debit, credit := cash, category
	if params.Type == model.TxnExpense {
		debit, credit = category, cash
	}

	date := params.Date
	if date.IsZero() {
		date = s.now()
	}
	entry := model.Entry{
		Kind:        model.KindTransaction,
		Date:        model.Day(date),
		Description: strings.TrimSpace(params.Description),
		Reference:   params.Reference,
		TxnType:     params.Type,
		Status:      model.StatusPosted,
		Lines: []model.Line{
			{AccountID: debit, Debit: params.Amount},
			{AccountID: credit, Credit: params.Amount},
		},
	}

	chart, err := s.charts.Load(ctx)
	if err != nil {
		return 0, err
	}
	if params.AccountID != 0 {
		if err := checkCategory(chart, params.Type, params.AccountID, cash); err != nil {
			return 0, err
		}
	}
	if verrs := ValidateEntry(entry, chart); len(verrs) > 0 {
		return 0, verrs
	}
	return s.create(ctx, &entry)
}

// checkCategory rejects an override that is the cash account or whose type
// does not match the transaction: income needs an income account, expense an
// expense account. Unknown ids are reported by ValidateEntry.
func checkCategory(chart *accounts.Service, txnType model.TxnType, id, cash int64) error {
	if id == cash {
		return model.Invalid("account_id", "cannot be the cash account")
	}
	got, ok := chart.TypeOf(id)
	if !ok {
		return nil
	}
	want := model.AccountTypeIncome
	if txnType == model.TxnExpense {
		want = model.AccountTypeExpense
	}
	if got != want {
		return model.Invalid("account_id", "%s transaction needs an %s account, got %s", txnType, want, got)
	}
	return nil
}

// JournalParams holds a general journal entry.
type JournalParams struct {
	Date        time.Time // zero = today
	Description string
	Reference   string
	Lines       []model.Line
	TaxRateID   int64 // 0 = no surcharge
}

// PostJournalEntry validates and records a multi-line entry. With a tax
// rate, the surcharge lines are added before the balance check.
func (s *Service) PostJournalEntry(ctx context.Context, params JournalParams) (int64, error) {
	date := params.Date
	if date.IsZero() {
		date = s.now()
	}
	entry := model.Entry{
		Kind:        model.KindJournal,
		Date:        model.Day(date),
		Description: strings.TrimSpace(params.Description),
		Reference:   strings.TrimSpace(params.Reference),
		Status:      model.StatusPosted,
		Lines:       make([]model.Line, len(params.Lines)),
	}
	copy(entry.Lines, params.Lines)

	if len(entry.Lines) < MinLines {
		errs := validateHeader(entry)
		errs = append(errs, model.ValidationError{
			Field:   "lines",
			Message: fmt.Sprintf("journal entry needs at least %d lines, got %d", MinLines, len(entry.Lines)),
		})
		return 0, errs
	}

	chart, err := s.charts.Load(ctx)
	if err != nil {
		return 0, err
	}

	if params.TaxRateID != 0 {
		rate, err := s.store.GetTaxRate(ctx, params.TaxRateID)
		if errors.Is(err, model.ErrNotFound) {
			return 0, model.Invalid("tax_rate_id", "unknown tax rate %d", params.TaxRateID)
		}
		if err != nil {
			return 0, fmt.Errorf("loading tax rate: %w", err)
		}
		if !rate.Active {
			return 0, model.Invalid("tax_rate_id", "tax rate %q is inactive", rate.Name)
		}
		if s.designations.TaxAccountID == 0 || s.designations.CashAccountID == 0 {
			s.log.Warn().Int64("tax_rate_id", rate.ID).Msg("no tax or cash account designated, surcharge skipped")
		}
		entry.Lines = Surcharge(entry.Lines, rate, chart, s.designations)
	}

	if verrs := ValidateEntry(entry, chart); len(verrs) > 0 {
		return 0, verrs
	}
	return s.create(ctx, &entry)
}

func (s *Service) create(ctx context.Context, entry *model.Entry) (int64, error) {
	entry.CreatedAt = s.now().UTC()
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return 0, fmt.Errorf("storing entry: %w", err)
	}
	s.log.Info().
		Str("label", entry.Label()).
		Str("date", entry.Date.Format(model.DateFormat)).
		Str("amount", entry.Amount().StringFixed(2)).
		Int("lines", len(entry.Lines)).
		Msg("entry posted")
	return entry.ID, nil
}

// Get returns an entry by id, void or not.
func (s *Service) Get(ctx context.Context, id int64) (model.Entry, error) {
	return s.store.GetEntry(ctx, id)
}

// GetKind returns an entry by id, requiring it to be of kind. An empty kind
// matches any entry.
func (s *Service) GetKind(ctx context.Context, kind model.EntryKind, id int64) (model.Entry, error) {
	entry, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return model.Entry{}, err
	}
	if kind != "" && entry.Kind != kind {
		return model.Entry{}, model.NotFoundError{Kind: kindName(kind), ID: id}
	}
	return entry, nil
}

// List returns entries matching filter in (date, id) order.
func (s *Service) List(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	return s.store.ListEntries(ctx, filter)
}

// Void moves a posted entry to void. The transition is one-way: voiding an
// entry that is already void is a StateError.
func (s *Service) Void(ctx context.Context, kind model.EntryKind, id int64, reason string) error {
	entry, err := s.GetKind(ctx, kind, id)
	if err != nil {
		return err
	}
	if entry.IsVoid() {
		return model.StateError{Kind: kindName(entry.Kind), ID: id, Message: "already void"}
	}

	if err := s.store.MarkVoid(ctx, id, s.now().UTC(), strings.TrimSpace(reason)); err != nil {
		return fmt.Errorf("voiding %s: %w", entry.Label(), err)
	}
	s.log.Info().Str("label", entry.Label()).Str("reason", reason).Msg("entry voided")
	return nil
}

func kindName(kind model.EntryKind) string {
	if kind == model.KindTransaction {
		return "transaction"
	}
	return "journal entry"
}
