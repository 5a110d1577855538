package public

import (
	handlershared "github.com/blogcraft/internal/http/handlers/shared"
	"github.com/blogcraft/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SearchPosts 全文检索公开文章，空查询返回空列表
func (h *Handler) SearchPosts(c *gin.Context) {
	results := h.SearchService.Search(c.Request.Context(), c.Query("q"), handlershared.QueryInt(c, "limit", 0))
	response.Success(c, gin.H{
		"query": results.Term(),
		"items": results.Collect(),
	})
}
