package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/crania/internal/journal"
	"github.com/cleared-dev/crania/internal/model"
)

// EntriesController posts, voids and reads transactions and journal
// entries.
type EntriesController struct {
	journal *journal.Service
}

func NewEntriesController(svc *journal.Service) *EntriesController {
	return &EntriesController{journal: svc}
}

// EntryResponse is an entry with its display label.
type EntryResponse struct {
	model.Entry
	Label string `json:"label"`
}

func newEntryResponse(e model.Entry) EntryResponse {
	if e.Lines == nil {
		e.Lines = []model.Line{}
	}
	return EntryResponse{Entry: e, Label: e.Label()}
}

type PostedResponse struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type TransactionRequestBody struct {
	Description string           `json:"description" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Type        string           `json:"type" validate:"required,oneof=income expense"`
	Date        string           `json:"date"`
	AccountID   int64            `json:"account_id"`
	Reference   string           `json:"reference"`
}

func (ctrl *EntriesController) PostTransaction(c echo.Context) error {
	var body TransactionRequestBody
	if err := bind(c, &body); err != nil {
		return err
	}
	date, err := model.ParseDate(body.Date)
	if err != nil {
		return model.Invalid("date", "%s", err)
	}

	entryID, err := ctrl.journal.PostTransaction(c.Request().Context(), journal.TransactionParams{
		Date:        date,
		Description: body.Description,
		Amount:      *body.Amount,
		Type:        model.TxnType(body.Type),
		AccountID:   body.AccountID,
		Reference:   body.Reference,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, PostedResponse{ID: entryID, Label: model.Entry{ID: entryID, Kind: model.KindTransaction}.Label()})
}

type JournalLineBody struct {
	AccountID int64           `json:"account_id" validate:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

type JournalEntryRequestBody struct {
	Description string            `json:"description" validate:"required"`
	Reference   string            `json:"reference"`
	Date        string            `json:"date"`
	Lines       []JournalLineBody `json:"lines" validate:"dive"`
	TaxRateID   int64             `json:"tax_rate_id"`
}

func (ctrl *EntriesController) PostJournalEntry(c echo.Context) error {
	var body JournalEntryRequestBody
	if err := bind(c, &body); err != nil {
		return err
	}
	date, err := model.ParseDate(body.Date)
	if err != nil {
		return model.Invalid("date", "%s", err)
	}

	params := journal.JournalParams{
		Date:        date,
		Description: body.Description,
		Reference:   body.Reference,
		TaxRateID:   body.TaxRateID,
	}
	for _, l := range body.Lines {
		params.Lines = append(params.Lines, model.Line{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		})
	}

	entryID, err := ctrl.journal.PostJournalEntry(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, PostedResponse{ID: entryID, Label: model.Entry{ID: entryID, Kind: model.KindJournal}.Label()})
}

// List returns entries filtered by from, to, kind and include_void.
func (ctrl *EntriesController) List(c echo.Context) error {
	period, err := periodParam(c)
	if err != nil {
		return err
	}
	kind := model.EntryKind(c.QueryParam("kind"))
	if kind != "" && !kind.Valid() {
		return model.Invalid("kind", "want transaction or journal, got %q", kind)
	}

	entries, err := ctrl.journal.List(c.Request().Context(), model.EntryFilter{
		Period:      period,
		Kind:        kind,
		IncludeVoid: c.QueryParam("include_void") == "true",
	})
	if err != nil {
		return err
	}
	resp := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, newEntryResponse(e))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns any entry by id, void or not.
func (ctrl *EntriesController) Get(c echo.Context) error {
	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	entry, err := ctrl.journal.Get(c.Request().Context(), entryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newEntryResponse(entry))
}

type VoidRequestBody struct {
	Reason string `json:"reason"`
}

func (ctrl *EntriesController) VoidTransaction(c echo.Context) error {
	return ctrl.void(c, model.KindTransaction)
}

func (ctrl *EntriesController) VoidJournalEntry(c echo.Context) error {
	return ctrl.void(c, model.KindJournal)
}

func (ctrl *EntriesController) void(c echo.Context, kind model.EntryKind) error {
	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var body VoidRequestBody
	if c.Request().ContentLength != 0 {
		if err := bind(c, &body); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	if err := ctrl.journal.Void(ctx, kind, entryID, body.Reason); err != nil {
		return err
	}
	entry, err := ctrl.journal.Get(ctx, entryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newEntryResponse(entry))
}
