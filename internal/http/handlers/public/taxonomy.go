package public

import (
	handlershared "github.com/blogcraft/internal/http/handlers/shared"
	"github.com/blogcraft/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCategories 启用的分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	response.Success(c, h.ContentService.ListCategories(c.Request.Context()))
}

// GetCategory 分类详情
func (h *Handler) GetCategory(c *gin.Context) {
	category := h.ContentService.GetCategory(c.Request.Context(), slugParam(c))
	if category == nil {
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
		return
	}
	response.Success(c, category)
}

// GetCategoryPosts 分类下的文章
func (h *Handler) GetCategoryPosts(c *gin.Context) {
	limit, offset := handlershared.QueryWindow(c)
	posts := h.ContentService.FetchPostsByCategory(c.Request.Context(), slugParam(c), limit, offset)
	h.respondPostWindow(c, posts, limit, offset)
}

// GetTags 标签列表
func (h *Handler) GetTags(c *gin.Context) {
	response.Success(c, h.ContentService.ListTags(c.Request.Context()))
}

// GetTag 标签详情
func (h *Handler) GetTag(c *gin.Context) {
	tag := h.ContentService.GetTag(c.Request.Context(), slugParam(c))
	if tag == nil {
		respondError(c, response.CodeNotFound, "error.tag_not_found", nil)
		return
	}
	response.Success(c, tag)
}

// GetTagPosts 标签下的文章
func (h *Handler) GetTagPosts(c *gin.Context) {
	limit, offset := handlershared.QueryWindow(c)
	posts := h.ContentService.FetchPostsByTag(c.Request.Context(), slugParam(c), limit, offset)
	h.respondPostWindow(c, posts, limit, offset)
}
