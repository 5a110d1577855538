package public

import (
	"net/http"

	"github.com/blogcraft/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSitemap 站点地图
func (h *Handler) GetSitemap(c *gin.Context) {
	body, err := h.SiteIndexService.Sitemap(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.sitemap_failed", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// GetRobots robots.txt
func (h *Handler) GetRobots(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.String(http.StatusOK, h.SiteIndexService.RobotsTxt(c.Request.Context()))
}

// GetFeed RSS 订阅源
func (h *Handler) GetFeed(c *gin.Context) {
	body, err := h.SiteIndexService.Feed(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.feed_failed", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=600")
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}
