package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/blogcraft/internal/cache"
	"github.com/blogcraft/internal/config"
	publichandlers "github.com/blogcraft/internal/http/handlers/public"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const healthCheckTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	if strings.EqualFold(cfg.Server.Mode, "release") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "blog"
	}
	var limiter redis.Scripter
	if client := cache.Client(); client != nil {
		limiter = client
	}
	commentRule := RateLimitRule{
		Prefix:        redisPrefix + ":rate:comment",
		WindowSeconds: cfg.Security.CommentRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CommentRateLimit.MaxRequests,
	}
	searchRule := RateLimitRule{
		Prefix:        redisPrefix + ":rate:search",
		WindowSeconds: cfg.Security.SearchRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SearchRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 站点索引
	r.GET("/sitemap.xml", publicHandler.GetSitemap)
	r.GET("/robots.txt", publicHandler.GetRobots)
	r.GET("/feed.xml", publicHandler.GetFeed)
	r.GET("/healthz", healthz)

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)

			// 文章
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/id/:id", publicHandler.GetPostByID)
			public.GET("/posts/:slug", publicHandler.GetPostBySlug)
			public.GET("/posts/:slug/comments", publicHandler.GetPostComments)
			public.POST("/posts/:slug/comments", RateLimitMiddleware(limiter, commentRule, KeyByIPAndParam("slug")), publicHandler.CreatePostComment)

			// 分类与标签
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/categories/:slug", publicHandler.GetCategory)
			public.GET("/categories/:slug/posts", publicHandler.GetCategoryPosts)
			public.GET("/tags", publicHandler.GetTags)
			public.GET("/tags/:slug", publicHandler.GetTag)
			public.GET("/tags/:slug/posts", publicHandler.GetTagPosts)

			// 搜索
			public.GET("/search", RateLimitMiddleware(limiter, searchRule, KeyByIP), publicHandler.SearchPosts)
		}
	}

	return r
}

func healthz(c *gin.Context) {
	status := gin.H{"status": "ok", "redis": "disabled"}
	if cache.Enabled() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	c.JSON(http.StatusOK, status)
}
