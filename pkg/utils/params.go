package utils

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// ParseID reads a positive integer id. Anything else yields 0.
func ParseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// GetIDParam extracts a positive id from a path parameter
func GetIDParam(c echo.Context, name string) int64 {
	return ParseID(c.Param(name))
}

// GetIDQuery extracts a positive id from a query parameter
func GetIDQuery(c echo.Context, name string) int64 {
	return ParseID(c.QueryParam(name))
}
