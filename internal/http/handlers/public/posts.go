package public

import (
	"strings"

	handlershared "github.com/blogcraft/internal/http/handlers/shared"
	"github.com/blogcraft/internal/http/response"
	"github.com/blogcraft/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCommentRequest 提交评论请求
type CreateCommentRequest struct {
	AuthorName     string                              `json:"author_name"`
	AuthorEmail    string                              `json:"author_email"`
	Content        string                              `json:"content"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// GetPosts 最新文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	limit, offset := handlershared.QueryWindow(c)
	posts := h.ContentService.FetchPosts(c.Request.Context(), limit, offset)
	h.respondPostWindow(c, posts, limit, offset)
}

// GetPostBySlug 根据 slug 获取文章详情并记录一次浏览
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post := h.ContentService.FetchPostBySlug(c.Request.Context(), slugParam(c))
	if post == nil {
		respondError(c, response.CodeNotFound, "error.post_not_found", nil)
		return
	}
	h.ViewCounter.Record(post.ID)
	response.Success(c, post)
}

// GetPostByID 根据 ID 获取文章详情
func (h *Handler) GetPostByID(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.post_id_invalid", nil)
		return
	}
	post := h.ContentService.FetchPostByID(c.Request.Context(), id)
	if post == nil {
		respondError(c, response.CodeNotFound, "error.post_not_found", nil)
		return
	}
	response.Success(c, post)
}

// GetPostComments 文章的已审核评论
func (h *Handler) GetPostComments(c *gin.Context) {
	comments, err := h.CommentService.ListApprovedBySlug(c.Request.Context(), slugParam(c))
	if err != nil {
		respondCommentListError(c, err)
		return
	}
	response.Success(c, comments)
}

// CreatePostComment 提交评论，写入后等待审核
func (h *Handler) CreatePostComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	comment, err := h.CommentService.Submit(c.Request.Context(), service.SubmitCommentInput{
		PostSlug:    slugParam(c),
		AuthorName:  req.AuthorName,
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		Content:     req.Content,
		Captcha:     req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		respondCommentSubmitError(c, err)
		return
	}
	response.SuccessWithMsg(c, "评论已提交，审核通过后展示", comment)
}

func (h *Handler) respondPostWindow(c *gin.Context, posts []service.PostView, limit, offset int) {
	if offset < 0 {
		offset = 0
	}
	response.SuccessWithWindow(c, posts, response.Window{
		Limit:  h.ContentService.Limits().Normalize(limit),
		Offset: offset,
		Count:  len(posts),
	})
}
