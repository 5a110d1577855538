package provider

import (
	"context"
	"time"

	"github.com/blogcraft/internal/cache"
	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/queue"
	"github.com/blogcraft/internal/repository"
	"github.com/blogcraft/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	PostRepo     repository.PostRepository
	CategoryRepo repository.CategoryRepository
	TagRepo      repository.TagRepository
	CommentRepo  repository.CommentRepository
	SettingRepo  repository.SettingRepository
	CounterRepo  repository.CounterRepository

	// Services
	Assembler        *service.PostAssembler
	ContentService   *service.ContentService
	SearchService    *service.SearchService
	ViewCounter      *service.ViewCounter
	CaptchaService   *service.CaptchaService
	CommentService   *service.CommentService
	SettingService   *service.SettingService
	SiteIndexService *service.SiteIndexService
	RecountService   *service.RecountService
	PublishService   *service.PublishService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 队列未启用时返回空客户端，浏览量直接写库
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 使用指定数据库与队列客户端构建容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	if queueClient == nil {
		queueClient, _ = queue.NewClient(nil)
	}
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.PostRepo = repository.NewPostRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.TagRepo = repository.NewTagRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.CounterRepo = repository.NewCounterRepository(db)
}

func (c *Container) initServices() {
	content := c.Config.Content
	c.Assembler = service.NewPostAssembler(content.WordsPerMinute, content.ExcerptLength)
	c.ContentService = service.NewContentService(
		c.PostRepo,
		c.CategoryRepo,
		c.TagRepo,
		c.Assembler,
		service.PageLimits{Default: content.DefaultPageSize, Max: content.MaxPageSize},
	)
	c.SearchService = service.NewSearchService(c.PostRepo, c.Assembler, content.SearchLimit)
	c.ViewCounter = service.NewViewCounter(
		c.PostRepo,
		c.QueueClient,
		time.Duration(content.ViewIncrementTimeoutMillis)*time.Millisecond,
	)
	c.CaptchaService = service.NewCaptchaService(c.Config.Comment.Captcha)
	c.CommentService = service.NewCommentService(c.CommentRepo, c.PostRepo, c.CaptchaService)
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.SiteIndexService = service.NewSiteIndexService(
		c.PostRepo,
		c.CategoryRepo,
		c.TagRepo,
		c.SettingService,
		service.DefaultSiteSetting(c.Config.Site, content),
		c.Assembler,
	)
	c.RecountService = service.NewRecountService(c.CounterRepo)
	c.PublishService = service.NewPublishService(c.PostRepo, c.CategoryRepo, c.TagRepo, c.Assembler)

	// 发布与设置变更后清理已渲染的站点索引和前台配置缓存
	c.PublishService.OnPublish(c.SiteIndexService.Invalidate)
	c.SettingService.OnChange(c.SiteIndexService.Invalidate)
	c.SettingService.OnChange(invalidatePublicConfig)
}

func invalidatePublicConfig(ctx context.Context) {
	if err := cache.Del(ctx, constants.CacheKeyPublicConfig); err != nil {
		logger.Warnw("provider_invalidate_public_config_failed", "error", err)
	}
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	c.ViewCounter.Wait()
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
