package public

import (
	"time"

	"github.com/blogcraft/internal/cache"
	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/http/response"
	"github.com/blogcraft/internal/service"

	"github.com/gin-gonic/gin"
)

const publicConfigCacheTTL = 60 * time.Second

// PublicConfigView 前台可见的站点配置
type PublicConfigView struct {
	Site    service.SiteSetting          `json:"site"`
	Captcha service.CaptchaPublicSetting `json:"captcha"`
}

// GetConfig 获取前台站点配置
func (h *Handler) GetConfig(c *gin.Context) {
	ctx := c.Request.Context()
	var cached PublicConfigView
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyPublicConfig, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	defaults := service.DefaultSiteSetting(h.Config.Site, h.Config.Content)
	data := PublicConfigView{
		Site:    h.SettingService.GetSiteSetting(ctx, defaults),
		Captcha: h.CaptchaService.PublicSetting(),
	}
	_ = cache.SetJSON(ctx, constants.CacheKeyPublicConfig, data, publicConfigCacheTTL)
	response.Success(c, data)
}
