package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryInt 读取整数查询参数；缺失或非法时返回 fallback
func QueryInt(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// QueryWindow 读取 limit/offset 查询参数，范围归一化交给 service 层
func QueryWindow(c *gin.Context) (limit, offset int) {
	return QueryInt(c, "limit", 0), QueryInt(c, "offset", 0)
}
