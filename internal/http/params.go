package http

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// listOptions parses the shared skip/limit/sort query parameters. Range
// checks happen in the services so every caller rejects the same way.
func listOptions(c echo.Context) (storage.ListOptions, error) {
	opts := storage.ListOptions{Limit: storage.DefaultLimit}

	skip, err := queryInt(c, "skip")
	if err != nil {
		return opts, err
	}
	if skip != nil {
		opts.Skip = int(*skip)
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return opts, err
	}
	if limit != nil {
		opts.Limit = int(*limit)
	}

	opts.Sort = c.QueryParam("sort")
	return opts, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, notes.Validationf("%s must be an integer", name)
	}
	return &value, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, notes.Validationf("%s must be a boolean", name)
	}
	return &value, nil
}
