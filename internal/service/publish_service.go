package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/repository"
)

var allowedPostStatuses = map[string]struct{}{
	constants.PostStatusDraft:     {},
	constants.PostStatusPublished: {},
	constants.PostStatusScheduled: {},
	constants.PostStatusArchived:  {},
}

// PublishPostInput 发布文章输入
type PublishPostInput struct {
	Title            string
	Slug             string
	Excerpt          string
	Content          string
	FeaturedImageURL string
	Status           string
	CategorySlug     string
	Tags             []string
	AuthorID         *uint
	MetaTitle        string
	MetaDescription  string
	MetaKeywords     []string
	PublishedAt      *time.Time
	ScheduledAt      *time.Time
}

// PublishService 文章发布服务
type PublishService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	assembler  *PostAssembler
	onPublish  []func(context.Context)
	now        func() time.Time
}

// NewPublishService 创建发布服务
func NewPublishService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	assembler *PostAssembler,
) *PublishService {
	if assembler == nil {
		assembler = NewPostAssembler(0, 0)
	}
	return &PublishService{
		posts:      posts,
		categories: categories,
		tags:       tags,
		assembler:  assembler,
		now:        time.Now,
	}
}

// OnPublish 注册发布成功后的回调
func (s *PublishService) OnPublish(fn func(context.Context)) {
	if fn != nil {
		s.onPublish = append(s.onPublish, fn)
	}
}

// Publish 创建文章并写入标签关联
func (s *PublishService) Publish(ctx context.Context, input PublishPostInput) (*models.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, newValidationError("title", "不能为空")
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = constants.PostStatusDraft
	}
	if _, ok := allowedPostStatuses[status]; !ok {
		return nil, ErrInvalidPostStatus
	}

	slug := Slugify(firstNonEmpty(input.Slug, title))
	if slug == "" {
		return nil, newValidationError("slug", "无法从标题生成 slug")
	}
	count, err := s.posts.CountBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	post := &models.Post{
		Slug:             slug,
		Title:            title,
		Excerpt:          strings.TrimSpace(input.Excerpt),
		Content:          input.Content,
		FeaturedImageURL: strings.TrimSpace(input.FeaturedImageURL),
		Status:           status,
		AuthorID:         input.AuthorID,
		MetaTitle:        strings.TrimSpace(input.MetaTitle),
		MetaDescription:  strings.TrimSpace(input.MetaDescription),
		MetaKeywords:     models.StringArray(normalizeKeywords(input.MetaKeywords)),
	}
	if readingTime := s.assembler.ReadingTime(input.Content); readingTime > 0 {
		post.ReadingTime = &readingTime
	}

	if categorySlug := strings.TrimSpace(input.CategorySlug); categorySlug != "" {
		category, err := s.categories.GetBySlug(ctx, categorySlug, false)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		post.CategoryID = &category.ID
	}

	switch status {
	case constants.PostStatusPublished:
		publishedAt := s.now().UTC()
		if input.PublishedAt != nil {
			publishedAt = input.PublishedAt.UTC()
		}
		post.PublishedAt = &publishedAt
	case constants.PostStatusScheduled:
		if input.ScheduledAt == nil {
			return nil, newValidationError("scheduled_at", "定时发布需要指定时间")
		}
		scheduledAt := input.ScheduledAt.UTC()
		post.ScheduledAt = &scheduledAt
	}

	tagIDs, err := s.upsertTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if err := s.posts.LinkTags(ctx, post.ID, tagIDs); err != nil {
		return nil, fmt.Errorf("link post tags: %w", err)
	}

	logger.Infow("post_published", "post_id", post.ID, "slug", post.Slug, "status", post.Status, "tags", len(tagIDs))
	for _, fn := range s.onPublish {
		fn(ctx)
	}
	return post, nil
}

func (s *PublishService) upsertTags(ctx context.Context, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		slug := TagSlug(name)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		tag, err := s.tags.Upsert(ctx, name, slug)
		if err != nil {
			return nil, fmt.Errorf("upsert tag %s: %w", slug, err)
		}
		if tag == nil {
			continue
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
