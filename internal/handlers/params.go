package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// intQuery parses an integer query parameter with a fallback default
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
