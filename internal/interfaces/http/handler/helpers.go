package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidProductID = errors.New("invalid product id")
	errInvalidDays      = errors.New("days must be between 1 and 365")
)

// queryPathInt64 parses a numeric path parameter, returning 0 when absent
// or malformed
func queryPathInt64(c *gin.Context, name string) int64 {
	raw := c.Param(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
