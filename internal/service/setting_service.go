package service

import (
	"context"
	"encoding/json"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/repository"
)

// SettingService 设置业务服务
type SettingService struct {
	repo     repository.SettingRepository
	onChange []func(context.Context)
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// OnChange 注册站点设置保存后的回调
func (s *SettingService) OnChange(fn func(context.Context)) {
	if fn != nil {
		s.onChange = append(s.onChange, fn)
	}
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(ctx context.Context, key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// GetSiteSetting 读取站点设置，未保存的字段使用默认值
func (s *SettingService) GetSiteSetting(ctx context.Context, defaults SiteSetting) SiteSetting {
	defaults = NormalizeSiteSetting(defaults, SiteSetting{})
	if s == nil || s.repo == nil {
		return defaults
	}
	value, err := s.GetByKey(ctx, constants.SettingKeySiteConfig)
	if err != nil {
		logger.Warnw("site_setting_load_failed", "error", err)
		return defaults
	}
	if value == nil {
		return defaults
	}
	return siteSettingFromJSON(value, defaults)
}

// SaveSiteSetting 保存站点设置，返回规范化后的值
func (s *SettingService) SaveSiteSetting(ctx context.Context, setting SiteSetting, defaults SiteSetting) (SiteSetting, error) {
	normalized := NormalizeSiteSetting(setting, NormalizeSiteSetting(defaults, SiteSetting{}))
	value, err := SiteSettingToJSON(normalized)
	if err != nil {
		return SiteSetting{}, err
	}
	if _, err := s.repo.Upsert(ctx, constants.SettingKeySiteConfig, value); err != nil {
		return SiteSetting{}, err
	}
	logger.Infow("site_setting_saved", "base_url", normalized.SEO.BaseURL)
	for _, fn := range s.onChange {
		fn(ctx)
	}
	return normalized, nil
}

// SiteSettingToJSON 转换为存储结构
func SiteSettingToJSON(setting SiteSetting) (models.JSON, error) {
	body, err := json.Marshal(setting)
	if err != nil {
		return nil, err
	}
	value := models.JSON{}
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func siteSettingFromJSON(value models.JSON, defaults SiteSetting) SiteSetting {
	body, err := json.Marshal(value)
	if err != nil {
		return defaults
	}
	var stored SiteSetting
	if err := json.Unmarshal(body, &stored); err != nil {
		logger.Warnw("site_setting_decode_failed", "error", err)
		return defaults
	}
	return NormalizeSiteSetting(stored, defaults)
}
