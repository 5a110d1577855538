package service

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/constants"
)

const (
	siteTitleMaxRunes       = 120
	siteDescriptionMaxRunes = 500
	siteKeywordsMaxCount    = 20
)

var allowedThemes = map[string]struct{}{
	"light":  {},
	"dark":   {},
	"system": {},
}

// SiteSetting 站点设置：SEO 与外观
type SiteSetting struct {
	SEO        SEOSetting        `json:"seo"`
	Appearance AppearanceSetting `json:"appearance"`
}

// SEOSetting 搜索引擎相关设置
type SEOSetting struct {
	SiteName       string   `json:"site_name"`
	Description    string   `json:"description"`
	BaseURL        string   `json:"base_url"`
	Keywords       []string `json:"keywords"`
	DefaultOGImage string   `json:"default_og_image"`
}

// AppearanceSetting 外观设置
type AppearanceSetting struct {
	Theme           string `json:"theme"`
	PrimaryColor    string `json:"primary_color"`
	PostsPerPage    int    `json:"posts_per_page"`
	ShowReadingTime bool   `json:"show_reading_time"`
}

// DefaultSiteSetting 由配置文件生成默认站点设置
func DefaultSiteSetting(site config.SiteConfig, content config.ContentConfig) SiteSetting {
	return NormalizeSiteSetting(SiteSetting{
		SEO: SEOSetting{
			SiteName:    site.Name,
			Description: site.Description,
			BaseURL:     site.BaseURL,
		},
		Appearance: AppearanceSetting{
			Theme:           "system",
			PostsPerPage:    content.DefaultPageSize,
			ShowReadingTime: true,
		},
	}, SiteSetting{})
}

// NormalizeSiteSetting 归一化站点设置，空值回落到 fallback
func NormalizeSiteSetting(setting SiteSetting, fallback SiteSetting) SiteSetting {
	seo := setting.SEO
	seo.SiteName = truncateSettingText(firstNonEmpty(seo.SiteName, fallback.SEO.SiteName), siteTitleMaxRunes)
	seo.Description = truncateSettingText(firstNonEmpty(seo.Description, fallback.SEO.Description), siteDescriptionMaxRunes)
	seo.BaseURL = normalizeBaseURL(seo.BaseURL)
	if seo.BaseURL == "" {
		seo.BaseURL = normalizeBaseURL(fallback.SEO.BaseURL)
	}
	seo.Keywords = normalizeKeywords(seo.Keywords)
	if len(seo.Keywords) == 0 {
		seo.Keywords = normalizeKeywords(fallback.SEO.Keywords)
	}
	seo.DefaultOGImage = strings.TrimSpace(firstNonEmpty(seo.DefaultOGImage, fallback.SEO.DefaultOGImage))

	appearance := setting.Appearance
	appearance.Theme = strings.ToLower(strings.TrimSpace(appearance.Theme))
	if _, ok := allowedThemes[appearance.Theme]; !ok {
		appearance.Theme = strings.ToLower(strings.TrimSpace(fallback.Appearance.Theme))
		if _, ok := allowedThemes[appearance.Theme]; !ok {
			appearance.Theme = "system"
		}
	}
	appearance.PrimaryColor = strings.TrimSpace(firstNonEmpty(appearance.PrimaryColor, fallback.Appearance.PrimaryColor))
	if appearance.PostsPerPage <= 0 {
		appearance.PostsPerPage = fallback.Appearance.PostsPerPage
	}
	appearance.PostsPerPage = PageLimits{Default: constants.DefaultPostPageSize, Max: constants.MaxPostPageSize}.Normalize(appearance.PostsPerPage)

	return SiteSetting{SEO: seo, Appearance: appearance}
}

// normalizeBaseURL 仅接受 http/https 绝对地址，去掉末尾斜杠
func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ""
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeKeywords(items []string) []string {
	result := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		keyword := strings.TrimSpace(item)
		if keyword == "" {
			continue
		}
		key := strings.ToLower(keyword)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, keyword)
		if len(result) >= siteKeywordsMaxCount {
			break
		}
	}
	return result
}

func truncateSettingText(raw string, limit int) string {
	text := strings.TrimSpace(raw)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
