package main

import (
	"context"
	"errors"
	"time"

	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/provider"
	"github.com/blogcraft/internal/service"
)

type seedPost struct {
	title       string
	category    string
	tags        []string
	content     string
	status      string
	publishedAt time.Duration // 相对当前时间
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 连接数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	container := provider.NewContainer(cfg)
	defer container.Close()

	authorID, err := models.EnsureDefaultAuthor("")
	if err != nil {
		stdLog.Fatalf("Failed to ensure default author: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Engineering", Slug: "engineering", Description: "Backend, infrastructure and tooling", Color: "#2563eb", IsActive: true},
		{Name: "Product", Slug: "product", Description: "Release notes and roadmaps", Color: "#16a34a", IsActive: true},
		{Name: "Archive", Slug: "archive", Description: "Retired topics", Color: "#6b7280", IsActive: false},
	}
	for i := range categories {
		category := categories[i]
		count, err := container.CategoryRepo.CountBySlug(ctx, category.Slug)
		if err != nil {
			stdLog.Fatalf("Failed to check category %s: %v", category.Slug, err)
		}
		if count > 0 {
			continue
		}
		if err := container.CategoryRepo.Create(ctx, &category); err != nil {
			stdLog.Fatalf("Failed to create category %s: %v", category.Slug, err)
		}
		// is_active 默认 true，停用需显式更新
		if !categories[i].IsActive {
			if err := models.DB.Model(&category).Update("is_active", false).Error; err != nil {
				stdLog.Fatalf("Failed to deactivate category %s: %v", category.Slug, err)
			}
		}
	}

	// 添加文章
	posts := []seedPost{
		{
			title:       "Designing a Read Path for a Blog",
			category:    "engineering",
			tags:        []string{"Go", "Architecture"},
			content:     "<p>Every public query carries the same visibility predicate: published status and a publish time in the past.</p>",
			status:      constants.PostStatusPublished,
			publishedAt: -72 * time.Hour,
		},
		{
			title:       "Full Text Search Without a Search Engine",
			category:    "engineering",
			tags:        []string{"Go", "Search"},
			content:     "<p>Title matches outrank tag matches, which outrank body matches.</p><pre>ILIKE '%term%'</pre>",
			status:      constants.PostStatusPublished,
			publishedAt: -24 * time.Hour,
		},
		{
			title:       "Spring Release Notes",
			category:    "product",
			tags:        []string{"Release"},
			content:     "<p>Comments now require moderation before they appear.</p>",
			status:      constants.PostStatusPublished,
			publishedAt: -2 * time.Hour,
		},
		{
			title:    "Roadmap Draft",
			category: "product",
			tags:     []string{"Release"},
			content:  "<p>Work in progress.</p>",
			status:   constants.PostStatusDraft,
		},
		{
			title:       "Coming Next Week",
			category:    "product",
			content:     "<p>Scheduled announcement.</p>",
			status:      constants.PostStatusScheduled,
			publishedAt: 7 * 24 * time.Hour,
		},
	}
	now := time.Now().UTC()
	var firstPublished *models.Post
	for _, item := range posts {
		input := service.PublishPostInput{
			Title:        item.title,
			Content:      item.content,
			Status:       item.status,
			CategorySlug: item.category,
			Tags:         item.tags,
			AuthorID:     &authorID,
		}
		at := now.Add(item.publishedAt)
		switch item.status {
		case constants.PostStatusPublished:
			input.PublishedAt = &at
		case constants.PostStatusScheduled:
			input.ScheduledAt = &at
		}
		post, err := container.PublishService.Publish(ctx, input)
		if errors.Is(err, service.ErrSlugExists) {
			stdLog.Printf("Post %q already exists, skipped", item.title)
			continue
		}
		if err != nil {
			stdLog.Fatalf("Failed to publish %q: %v", item.title, err)
		}
		if firstPublished == nil && post.Status == constants.PostStatusPublished {
			firstPublished = post
		}
	}

	// 添加一条已审核评论
	if firstPublished != nil {
		comment := &models.Comment{
			PostID:      firstPublished.ID,
			AuthorName:  "Reader",
			AuthorEmail: "reader@example.com",
			Content:     "Clear write-up, thanks.",
			Status:      constants.CommentStatusApproved,
		}
		if err := container.CommentRepo.Create(ctx, comment); err != nil {
			stdLog.Fatalf("Failed to create comment: %v", err)
		}
	}

	// 站点设置
	defaults := service.DefaultSiteSetting(cfg.Site, cfg.Content)
	setting := defaults
	setting.SEO.Keywords = []string{"go", "blog", "engineering"}
	if _, err := container.SettingService.SaveSiteSetting(ctx, setting, defaults); err != nil {
		stdLog.Fatalf("Failed to save site setting: %v", err)
	}

	// 重算冗余计数
	result, err := container.RecountService.Recount(ctx)
	if err != nil {
		stdLog.Fatalf("Failed to recount counters: %v", err)
	}
	stdLog.Printf("Seed completed: %d categories, %d tags, %d posts recounted", result.Categories, result.Tags, result.Posts)
}
