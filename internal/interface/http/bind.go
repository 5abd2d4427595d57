package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

func bindFloat(c *gin.Context, name string, dst *float64) error {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("query parameter %s must be a number", name)
	}
	*dst = v
	return nil
}

func bindInt(c *gin.Context, name string, dst *int) error {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("query parameter %s must be an integer", name)
	}
	*dst = v
	return nil
}
