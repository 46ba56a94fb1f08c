package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleared-dev/crania/internal/accounts"
	"github.com/cleared-dev/crania/internal/model"
)

// AccountsController serves the chart of accounts.
type AccountsController struct {
	registry *accounts.Registry
}

func NewAccountsController(registry *accounts.Registry) *AccountsController {
	return &AccountsController{registry: registry}
}

// List returns active accounts, or every account with ?all=true.
func (ctrl *AccountsController) List(c echo.Context) error {
	chart, err := ctrl.registry.Load(c.Request().Context())
	if err != nil {
		return err
	}
	accts := chart.Active()
	if c.QueryParam("all") == "true" {
		accts = chart.All()
	}
	if accts == nil {
		accts = []model.Account{}
	}
	return c.JSON(http.StatusOK, accts)
}

type CreateAccountRequestBody struct {
	Code        string `json:"code"`
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=asset liability equity income expense"`
	ParentID    int64  `json:"parent_id"`
	Description string `json:"description"`
}

func (ctrl *AccountsController) Create(c echo.Context) error {
	var body CreateAccountRequestBody
	if err := bind(c, &body); err != nil {
		return err
	}

	acct, err := ctrl.registry.Create(c.Request().Context(), accounts.CreateParams{
		Code:        body.Code,
		Name:        body.Name,
		Type:        model.AccountType(body.Type),
		ParentID:    body.ParentID,
		Description: body.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, acct)
}

type UpdateAccountRequestBody struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Type        *string `json:"type" validate:"omitempty,oneof=asset liability equity income expense"`
	ParentID    *int64  `json:"parent_id"`
	Active      *bool   `json:"active"`
	Description *string `json:"description"`
}

// Update applies the fields present in the body.
func (ctrl *AccountsController) Update(c echo.Context) error {
	accountID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var body UpdateAccountRequestBody
	if err := bind(c, &body); err != nil {
		return err
	}

	params := accounts.UpdateParams{
		Code:        body.Code,
		Name:        body.Name,
		ParentID:    body.ParentID,
		Active:      body.Active,
		Description: body.Description,
	}
	if body.Type != nil {
		t := model.AccountType(*body.Type)
		params.Type = &t
	}
	acct, err := ctrl.registry.Update(c.Request().Context(), accountID, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acct)
}
