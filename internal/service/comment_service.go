package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/repository"
)

// SubmitCommentInput 提交评论输入
type SubmitCommentInput struct {
	PostSlug    string
	AuthorName  string
	AuthorEmail string
	Content     string
	Captcha     CaptchaVerifyPayload
}

// CommentView 评论展示对象（不包含邮箱）
type CommentView struct {
	ID         uint      `json:"id"`
	PostID     uint      `json:"post_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentService 评论服务
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	captcha  *CaptchaService
	now      func() time.Time
}

// NewCommentService 创建评论服务
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, captcha *CaptchaService) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		captcha:  captcha,
		now:      time.Now,
	}
}

// Submit 校验并写入待审核评论；校验失败时不写入任何数据
func (s *CommentService) Submit(ctx context.Context, input SubmitCommentInput) (*CommentView, error) {
	name, email, content, err := validateCommentInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.captcha.Verify(input.Captcha); err != nil {
		return nil, err
	}

	post, err := s.findVisiblePost(ctx, input.PostSlug)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:      post.ID,
		AuthorName:  name,
		AuthorEmail: email,
		Content:     content,
		Status:      constants.CommentStatusPending,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		logger.Errorw("comment_create_failed", "post_id", post.ID, "error", err)
		return nil, fmt.Errorf("create comment: %w", err)
	}
	logger.Infow("comment_submitted", "post_id", post.ID, "comment_id", comment.ID)
	view := assembleComment(*comment)
	return &view, nil
}

// ListApprovedBySlug 获取文章的已审核评论；文章不可见时返回 ErrNotFound
func (s *CommentService) ListApprovedBySlug(ctx context.Context, slug string) ([]CommentView, error) {
	post, err := s.findVisiblePost(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.ListApproved(ctx, post.ID), nil
}

// ListApproved 已审核评论，失败时返回空列表
func (s *CommentService) ListApproved(ctx context.Context, postID uint) []CommentView {
	comments, err := s.comments.ListApproved(ctx, postID)
	if err != nil {
		logger.Errorw("comment_list_failed", "post_id", postID, "error", err)
		return []CommentView{}
	}
	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, assembleComment(comment))
	}
	return views
}

func (s *CommentService) findVisiblePost(ctx context.Context, slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	post, err := s.posts.Get(ctx, repository.PostQuery{Slug: slug, OnlyPublished: true, Now: s.now()})
	if err != nil {
		logger.Errorw("comment_post_lookup_failed", "slug", slug, "error", err)
		return nil, fmt.Errorf("lookup post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

func validateCommentInput(input SubmitCommentInput) (string, string, string, error) {
	name := strings.TrimSpace(input.AuthorName)
	if name == "" {
		return "", "", "", newValidationError("author_name", "不能为空")
	}
	if utf8.RuneCountInString(name) > constants.CommentAuthorNameMax {
		return "", "", "", newValidationError("author_name", fmt.Sprintf("不能超过 %d 个字符", constants.CommentAuthorNameMax))
	}

	email, err := normalizeEmail(input.AuthorEmail)
	if err != nil {
		return "", "", "", err
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return "", "", "", newValidationError("content", "不能为空")
	}
	if utf8.RuneCountInString(content) > constants.CommentContentMaxRunes {
		return "", "", "", newValidationError("content", fmt.Sprintf("不能超过 %d 个字符", constants.CommentContentMaxRunes))
	}
	return name, email, content, nil
}

// normalizeEmail 只接受裸地址，不接受 "Name <addr>" 形式
func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", newValidationError("author_email", "不能为空")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", newValidationError("author_email", "格式无效")
	}
	return strings.ToLower(addr.Address), nil
}

func assembleComment(comment models.Comment) CommentView {
	return CommentView{
		ID:         comment.ID,
		PostID:     comment.PostID,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		Status:     comment.Status,
		CreatedAt:  comment.CreatedAt,
	}
}
