package service

import (
	"context"
	"time"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/repository"
)

// ContentService 前台内容读取服务
// 读路径不向调用方返回后端错误：失败时记录日志并返回空结果
type ContentService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	assembler  *PostAssembler
	limits     PageLimits
	now        func() time.Time
}

// NewContentService 创建内容服务
func NewContentService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	assembler *PostAssembler,
	limits PageLimits,
) *ContentService {
	if assembler == nil {
		assembler = NewPostAssembler(0, 0)
	}
	return &ContentService{
		posts:      posts,
		categories: categories,
		tags:       tags,
		assembler:  assembler,
		limits:     limits,
		now:        time.Now,
	}
}

// Limits 列表分页限制
func (s *ContentService) Limits() PageLimits {
	return s.limits
}

// ListPosts 按视图意图获取文章列表
func (s *ContentService) ListPosts(ctx context.Context, intent ViewIntent) []PostView {
	query, err := BuildPostQuery(intent, s.now(), s.limits)
	if err != nil {
		logger.Warnw("post_list_intent_invalid", "kind", intent.Kind, "slug", intent.Slug, "error", err)
		return []PostView{}
	}
	posts, err := s.posts.List(ctx, query)
	if err != nil {
		logger.Errorw("post_list_failed",
			"kind", intent.Kind,
			"slug", intent.Slug,
			"limit", query.Limit,
			"offset", query.Offset,
			"error", err,
		)
		return []PostView{}
	}
	return s.assembler.AssembleList(posts)
}

// FetchPosts 最新文章
func (s *ContentService) FetchPosts(ctx context.Context, limit, offset int) []PostView {
	return s.ListPosts(ctx, ViewIntent{Kind: constants.ViewKindAll, Limit: limit, Offset: offset})
}

// FetchPostsByCategory 分类下的文章
func (s *ContentService) FetchPostsByCategory(ctx context.Context, slug string, limit, offset int) []PostView {
	return s.ListPosts(ctx, ViewIntent{Kind: constants.ViewKindCategory, Slug: slug, Limit: limit, Offset: offset})
}

// FetchPostsByTag 标签下的文章
func (s *ContentService) FetchPostsByTag(ctx context.Context, slug string, limit, offset int) []PostView {
	return s.ListPosts(ctx, ViewIntent{Kind: constants.ViewKindTag, Slug: slug, Limit: limit, Offset: offset})
}

// FetchPostBySlug 按 slug 获取公开文章，不可见或失败时返回 nil
func (s *ContentService) FetchPostBySlug(ctx context.Context, slug string) *PostView {
	return s.getPost(ctx, ViewIntent{Kind: constants.ViewKindSlug, Slug: slug})
}

// FetchPostByID 按 ID 获取公开文章
func (s *ContentService) FetchPostByID(ctx context.Context, id uint) *PostView {
	return s.getPost(ctx, ViewIntent{Kind: constants.ViewKindID, ID: id})
}

func (s *ContentService) getPost(ctx context.Context, intent ViewIntent) *PostView {
	query, err := BuildPostQuery(intent, s.now(), s.limits)
	if err != nil {
		logger.Warnw("post_get_intent_invalid", "kind", intent.Kind, "error", err)
		return nil
	}
	post, err := s.posts.Get(ctx, query)
	if err != nil {
		logger.Errorw("post_get_failed", "kind", intent.Kind, "slug", intent.Slug, "id", intent.ID, "error", err)
		return nil
	}
	if post == nil {
		return nil
	}
	view := s.assembler.Assemble(*post)
	return &view
}

// ListCategories 启用的分类
func (s *ContentService) ListCategories(ctx context.Context) []CategoryView {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		logger.Errorw("category_list_failed", "error", err)
		return []CategoryView{}
	}
	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, AssembleCategory(category))
	}
	return views
}

// GetCategory 按 slug 获取启用的分类
func (s *ContentService) GetCategory(ctx context.Context, slug string) *CategoryView {
	category, err := s.categories.GetBySlug(ctx, slug, true)
	if err != nil {
		logger.Errorw("category_get_failed", "slug", slug, "error", err)
		return nil
	}
	if category == nil {
		return nil
	}
	view := AssembleCategory(*category)
	return &view
}

// ListTags 标签列表
func (s *ContentService) ListTags(ctx context.Context) []TagView {
	tags, err := s.tags.List(ctx)
	if err != nil {
		logger.Errorw("tag_list_failed", "error", err)
		return []TagView{}
	}
	views := make([]TagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, AssembleTag(tag))
	}
	return views
}

// GetTag 按 slug 获取标签
func (s *ContentService) GetTag(ctx context.Context, slug string) *TagView {
	tag, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		logger.Errorw("tag_get_failed", "slug", slug, "error", err)
		return nil
	}
	if tag == nil {
		return nil
	}
	view := AssembleTag(*tag)
	return &view
}
