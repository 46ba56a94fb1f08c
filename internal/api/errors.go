package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleared-dev/crania/internal/model"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error          bool                    `json:"error"`
	Message        string                  `json:"message"`
	Fields         []model.ValidationError `json:"fields,omitempty"`
	HTTPStatusCode int                     `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Message:        "Something went wrong. Please try again later",
	HTTPStatusCode: http.StatusInternalServerError,
}

// HTTPErrorHandler maps domain errors to status codes: validation failures
// to 400, unknown ids to 404 and invalid state transitions to 409.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := errorResponse(err)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.HTTPStatusCode)
	} else {
		err = c.JSON(resp.HTTPStatusCode, resp)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func errorResponse(err error) ErrorResponse {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return ErrorResponse{Error: true, Message: msg, HTTPStatusCode: he.Code}
	}

	resp := ErrorResponse{Error: true, Message: err.Error()}
	switch {
	case errors.Is(err, model.ErrValidation):
		resp.HTTPStatusCode = http.StatusBadRequest
		resp.Fields = validationFields(err)
	case errors.Is(err, model.ErrNotFound):
		resp.HTTPStatusCode = http.StatusNotFound
	case errors.Is(err, model.ErrState):
		resp.HTTPStatusCode = http.StatusConflict
	default:
		return GeneralServerError
	}
	return resp
}

func validationFields(err error) []model.ValidationError {
	var list model.ValidationErrors
	if errors.As(err, &list) {
		return list
	}
	var one model.ValidationError
	if errors.As(err, &one) {
		return []model.ValidationError{one}
	}
	return nil
}
