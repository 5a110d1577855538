package public

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func slugParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("slug"))
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}
