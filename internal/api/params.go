package api

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cleared-dev/crania/internal/model"
)

// idParam parses a positive integer path parameter.
func idParam(c echo.Context, name string) (int64, error) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, model.Invalid(name, "not a valid id: %q", c.Param(name))
	}
	return n, nil
}

// periodParam reads the from, to and as_of query parameters.
func periodParam(c echo.Context) (model.Period, error) {
	p, err := model.ParsePeriod(c.QueryParam("from"), c.QueryParam("to"), c.QueryParam("as_of"))
	if err != nil {
		return model.Period{}, model.Invalid("period", "%s", err)
	}
	return p, nil
}

// idsParam reads a comma-separated id list, also accepting the parameter
// repeated.
func idsParam(c echo.Context, name string) ([]int64, error) {
	var ids []int64
	for _, v := range c.QueryParams()[name] {
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, model.Invalid(name, "not a valid id: %q", s)
			}
			ids = append(ids, n)
		}
	}
	return ids, nil
}

// bind decodes the request body into v and validates it.
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return model.Invalid("body", "malformed request body")
	}
	return c.Validate(v)
}
