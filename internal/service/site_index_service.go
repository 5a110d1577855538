package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/blogcraft/internal/cache"
	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/repository"
)

const (
	sitemapCacheKey   = "site_index:sitemap"
	feedCacheKey      = "site_index:feed"
	siteIndexCacheTTL = 10 * time.Minute
	sitemapXMLNS      = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// 公开爬虫白名单，顺序即 robots.txt 输出顺序
var robotsUserAgents = []string{"Googlebot", "Bingbot", "Twitterbot", "facebookexternalhit", "*"}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

// RenderedCache 已渲染文本的缓存
type RenderedCache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisRenderedCache struct{}

func (redisRenderedCache) GetString(ctx context.Context, key string) (string, bool, error) {
	return cache.GetString(ctx, key)
}

func (redisRenderedCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return cache.SetString(ctx, key, value, ttl)
}

func (redisRenderedCache) Del(ctx context.Context, keys ...string) error {
	return cache.Del(ctx, keys...)
}

// SiteIndexService 生成 sitemap.xml、robots.txt 与 RSS
type SiteIndexService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	settings   *SettingService
	defaults   SiteSetting
	assembler  *PostAssembler
	store      RenderedCache
	now        func() time.Time
}

// NewSiteIndexService 创建站点索引服务
func NewSiteIndexService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	settings *SettingService,
	defaults SiteSetting,
	assembler *PostAssembler,
) *SiteIndexService {
	if assembler == nil {
		assembler = NewPostAssembler(0, 0)
	}
	return &SiteIndexService{
		posts:      posts,
		categories: categories,
		tags:       tags,
		settings:   settings,
		defaults:   defaults,
		assembler:  assembler,
		store:      redisRenderedCache{},
		now:        time.Now,
	}
}

// SetCache 替换渲染缓存
func (s *SiteIndexService) SetCache(store RenderedCache) {
	if store != nil {
		s.store = store
	}
}

// Sitemap 生成 sitemap.xml
func (s *SiteIndexService) Sitemap(ctx context.Context) ([]byte, error) {
	if cached, hit, err := s.store.GetString(ctx, sitemapCacheKey); err == nil && hit {
		return []byte(cached), nil
	}

	now := s.now().UTC()
	base := s.baseURL(ctx)
	today := now.Format(time.DateOnly)
	urls := []sitemapURL{
		{Loc: buildPageURL(base, "blog"), LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
		{Loc: buildPageURL(base, "blog", "categories"), LastMod: today, ChangeFreq: "weekly", Priority: "0.8"},
		{Loc: buildPageURL(base, "blog", "tags"), LastMod: today, ChangeFreq: "weekly", Priority: "0.8"},
		{Loc: buildPageURL(base, "blog", "about"), LastMod: today, ChangeFreq: "monthly", Priority: "0.8"},
	}

	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		logger.Warnw("sitemap_categories_failed", "error", err)
	}
	for _, category := range categories {
		urls = append(urls, sitemapURL{
			Loc:        buildPageURL(base, "blog", "category", category.Slug),
			LastMod:    today,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	tags, err := s.tags.List(ctx)
	if err != nil {
		logger.Warnw("sitemap_tags_failed", "error", err)
	}
	for _, tag := range tags {
		urls = append(urls, sitemapURL{
			Loc:        buildPageURL(base, "blog", "tag", tag.Slug),
			LastMod:    today,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	posts, err := s.posts.List(ctx, repository.PostQuery{OnlyPublished: true, Now: now, Limit: constants.SitemapMaxPosts})
	if err != nil {
		logger.Warnw("sitemap_posts_failed", "error", err)
	}
	recentSince := now.AddDate(0, 0, -constants.SitemapRecentPostDays)
	for _, post := range posts {
		urls = append(urls, sitemapURL{
			Loc:        buildPageURL(base, "blog", "post", post.Slug),
			LastMod:    postLastModified(post).Format(time.DateOnly),
			ChangeFreq: postChangeFreq(post, recentSince),
			Priority:   "0.8",
		})
	}

	body, err := encodeXML(sitemapURLSet{XMLNS: sitemapXMLNS, URLs: urls})
	if err != nil {
		return nil, err
	}
	if err := s.store.SetString(ctx, sitemapCacheKey, string(body), siteIndexCacheTTL); err != nil {
		logger.Warnw("sitemap_cache_set_failed", "error", err)
	}
	return body, nil
}

// RobotsTxt 生成 robots.txt
func (s *SiteIndexService) RobotsTxt(ctx context.Context) string {
	var b strings.Builder
	for _, agent := range robotsUserAgents {
		fmt.Fprintf(&b, "User-agent: %s\nAllow: /\n\n", agent)
	}
	b.WriteString("# Sitemap\n")
	fmt.Fprintf(&b, "Sitemap: %s\n\n", buildPageURL(s.baseURL(ctx), "sitemap.xml"))
	b.WriteString("# Disallow admin areas\n")
	b.WriteString("Disallow: /admin/\n")
	return b.String()
}

// Feed 生成最新文章的 RSS 2.0
func (s *SiteIndexService) Feed(ctx context.Context) ([]byte, error) {
	if cached, hit, err := s.store.GetString(ctx, feedCacheKey); err == nil && hit {
		return []byte(cached), nil
	}

	now := s.now().UTC()
	setting := s.siteSetting(ctx)
	base := setting.SEO.BaseURL
	posts, err := s.posts.List(ctx, repository.PostQuery{OnlyPublished: true, Now: now, Limit: constants.FeedDefaultItems})
	if err != nil {
		logger.Warnw("feed_posts_failed", "error", err)
	}

	items := make([]rssItem, 0, len(posts))
	for _, post := range posts {
		view := s.assembler.Assemble(post)
		link := buildPageURL(base, "blog", "post", post.Slug)
		item := rssItem{
			Title:       view.Title,
			Link:        link,
			Description: view.Excerpt,
			GUID:        link,
		}
		if view.PublishedAt != nil {
			item.PubDate = view.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		if view.Category != nil {
			item.Categories = append(item.Categories, view.Category.Name)
		}
		for _, tag := range view.Tags {
			item.Categories = append(item.Categories, tag.Name)
		}
		items = append(items, item)
	}

	body, err := encodeXML(rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         setting.SEO.SiteName,
			Link:          buildPageURL(base, "blog"),
			Description:   setting.SEO.Description,
			LastBuildDate: now.Format(time.RFC1123Z),
			Items:         items,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.SetString(ctx, feedCacheKey, string(body), siteIndexCacheTTL); err != nil {
		logger.Warnw("feed_cache_set_failed", "error", err)
	}
	return body, nil
}

// Invalidate 清除已渲染的缓存，注册为发布与设置保存的回调
func (s *SiteIndexService) Invalidate(ctx context.Context) {
	if err := s.store.Del(ctx, sitemapCacheKey, feedCacheKey); err != nil {
		logger.Warnw("site_index_cache_invalidate_failed", "error", err)
	}
}

func (s *SiteIndexService) siteSetting(ctx context.Context) SiteSetting {
	return s.settings.GetSiteSetting(ctx, s.defaults)
}

func (s *SiteIndexService) baseURL(ctx context.Context) string {
	return s.siteSetting(ctx).SEO.BaseURL
}

func postLastModified(post models.Post) time.Time {
	if !post.UpdatedAt.IsZero() {
		return post.UpdatedAt.UTC()
	}
	if post.PublishedAt != nil {
		return post.PublishedAt.UTC()
	}
	return post.CreatedAt.UTC()
}

func postChangeFreq(post models.Post, recentSince time.Time) string {
	if post.PublishedAt != nil && post.PublishedAt.After(recentSince) {
		return "daily"
	}
	return "monthly"
}

func encodeXML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
