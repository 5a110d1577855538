package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/provider"
	"github.com/blogcraft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type testSite struct {
	engine    *gin.Engine
	container *provider.Container
	db        *gorm.DB
	post      *models.Post
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = zap.NewNop()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.OpenDB("sqlite", fmt.Sprintf("file:router_%s?mode=memory&cache=shared", name), "release")
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	v := viper.New()
	config.SetDefaults(v)
	v.Set("site.base_url", "https://blog.example.com")
	cfg, err := config.Decode(v)
	if err != nil {
		t.Fatalf("decode config failed: %v", err)
	}
	container := provider.NewContainerWithDB(cfg, db, nil)

	if err := db.Create(&models.Category{Name: "Go", Slug: "go", IsActive: true}).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	publishedAt := time.Now().UTC().Add(-time.Hour)
	post, err := container.PublishService.Publish(context.Background(), service.PublishPostInput{
		Title:        "Hello Gin",
		Content:      "<p>routing with gin and gorm</p>",
		Status:       constants.PostStatusPublished,
		CategorySlug: "go",
		Tags:         []string{"Web"},
		PublishedAt:  &publishedAt,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := container.PublishService.Publish(context.Background(), service.PublishPostInput{
		Title:   "Secret Draft",
		Content: "<p>not yet</p>",
	}); err != nil {
		t.Fatalf("publish draft failed: %v", err)
	}

	return &testSite{
		engine:    SetupRouter(cfg, container),
		container: container,
		db:        db,
		post:      post,
	}
}

func (s *testSite) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testSite) getJSON(t *testing.T, method, path, body string) apiEnvelope {
	t.Helper()
	w := s.do(t, method, path, body)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode failed: %v (%s)", method, path, err, w.Body.String())
	}
	return env
}

func TestPublicPostRoutes(t *testing.T) {
	site := newTestSite(t)

	env := site.getJSON(t, http.MethodGet, "/api/v1/public/posts", "")
	var posts []service.PostView
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		t.Fatalf("decode posts failed: %v", err)
	}
	if env.StatusCode != 0 || len(posts) != 1 || posts[0].Slug != "hello-gin" {
		t.Fatalf("unexpected post list %+v", posts)
	}
	if posts[0].Category == nil || len(posts[0].Tags) != 1 {
		t.Fatalf("expected category and tags preloaded, got %+v", posts[0])
	}

	env = site.getJSON(t, http.MethodGet, "/api/v1/public/posts/hello-gin", "")
	if env.StatusCode != 0 {
		t.Fatalf("expected post detail, got %+v", env)
	}
	site.container.ViewCounter.Wait()
	var stored models.Post
	if err := site.db.First(&stored, site.post.ID).Error; err != nil {
		t.Fatalf("reload post failed: %v", err)
	}
	if stored.Views == nil || *stored.Views != 1 {
		t.Fatalf("expected one recorded view, got %v", stored.Views)
	}

	if env := site.getJSON(t, http.MethodGet, "/api/v1/public/posts/secret-draft", ""); env.StatusCode != 404 {
		t.Fatalf("draft should be hidden, got %d", env.StatusCode)
	}
	if env := site.getJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/public/posts/id/%d", site.post.ID), ""); env.StatusCode != 0 {
		t.Fatalf("expected post by id, got %d", env.StatusCode)
	}
	if env := site.getJSON(t, http.MethodGet, "/api/v1/public/posts/id/abc", ""); env.StatusCode != 400 {
		t.Fatalf("expected bad request for invalid id, got %d", env.StatusCode)
	}
}

func TestPublicTaxonomyAndSearchRoutes(t *testing.T) {
	site := newTestSite(t)

	env := site.getJSON(t, http.MethodGet, "/api/v1/public/categories/go/posts?limit=5", "")
	var posts []service.PostView
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		t.Fatalf("decode posts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected one post in category, got %d", len(posts))
	}
	if env := site.getJSON(t, http.MethodGet, "/api/v1/public/tags/web", ""); env.StatusCode != 0 {
		t.Fatalf("expected tag detail, got %d", env.StatusCode)
	}
	if env := site.getJSON(t, http.MethodGet, "/api/v1/public/tags/missing", ""); env.StatusCode != 404 {
		t.Fatalf("expected tag not found, got %d", env.StatusCode)
	}

	env = site.getJSON(t, http.MethodGet, "/api/v1/public/search?q=gorm", "")
	var result struct {
		Query string                 `json:"query"`
		Items []service.SearchResult `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode search failed: %v", err)
	}
	if result.Query != "gorm" || len(result.Items) != 1 || result.Items[0].Slug != "hello-gin" {
		t.Fatalf("unexpected search result %+v", result)
	}

	env = site.getJSON(t, http.MethodGet, "/api/v1/public/search?q=%20%20", "")
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode search failed: %v", err)
	}
	if result.Items == nil || len(result.Items) != 0 {
		t.Fatalf("blank query should return empty list, got %+v", result.Items)
	}
}

func TestPublicCommentRoutes(t *testing.T) {
	site := newTestSite(t)

	env := site.getJSON(t, http.MethodPost, "/api/v1/public/posts/hello-gin/comments", `{"author_name":"","author_email":"a@b.co","content":"hi"}`)
	if env.StatusCode != 400 || !strings.Contains(string(env.Data), "author_name") {
		t.Fatalf("expected field validation error, got %+v", env)
	}

	env = site.getJSON(t, http.MethodPost, "/api/v1/public/posts/secret-draft/comments", `{"author_name":"Ann","author_email":"ann@example.com","content":"hi"}`)
	if env.StatusCode != 404 {
		t.Fatalf("expected not found for hidden post, got %d", env.StatusCode)
	}

	env = site.getJSON(t, http.MethodPost, "/api/v1/public/posts/hello-gin/comments", `{"author_name":"Ann","author_email":"Ann@Example.com","content":"nice post"}`)
	if env.StatusCode != 0 {
		t.Fatalf("expected comment accepted, got %+v", env)
	}
	var comments []models.Comment
	if err := site.db.Find(&comments).Error; err != nil {
		t.Fatalf("load comments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].Status != constants.CommentStatusPending || comments[0].AuthorEmail != "ann@example.com" {
		t.Fatalf("unexpected stored comments %+v", comments)
	}

	// 待审核评论不出现在公开列表
	env = site.getJSON(t, http.MethodGet, "/api/v1/public/posts/hello-gin/comments", "")
	var listed []service.CommentView
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode comments failed: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("pending comment should not be listed, got %+v", listed)
	}
}

func TestSiteIndexRoutes(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, http.MethodGet, "/sitemap.xml", "")
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml") {
		t.Fatalf("unexpected sitemap content type %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "https://blog.example.com/blog/post/hello-gin") {
		t.Fatalf("sitemap should list published post: %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "secret-draft") {
		t.Fatalf("sitemap should not list drafts")
	}

	w = site.do(t, http.MethodGet, "/robots.txt", "")
	if !strings.Contains(w.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Fatalf("robots.txt should reference sitemap: %s", w.Body.String())
	}

	w = site.do(t, http.MethodGet, "/feed.xml", "")
	if !strings.Contains(w.Body.String(), "<rss") || !strings.Contains(w.Body.String(), "Hello Gin") {
		t.Fatalf("unexpected feed: %s", w.Body.String())
	}

	w = site.do(t, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected healthz response %d %s", w.Code, w.Body.String())
	}

	env := site.getJSON(t, http.MethodGet, "/api/v1/public/config", "")
	if !strings.Contains(string(env.Data), `"provider":"none"`) {
		t.Fatalf("config should expose captcha provider: %s", env.Data)
	}
}

type mapRenderedCache map[string]string

func (m mapRenderedCache) GetString(_ context.Context, key string) (string, bool, error) {
	value, ok := m[key]
	return value, ok, nil
}

func (m mapRenderedCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	m[key] = value
	return nil
}

func (m mapRenderedCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m, key)
	}
	return nil
}

func TestSiteIndexRoutesRefreshAfterChanges(t *testing.T) {
	site := newTestSite(t)
	site.container.SiteIndexService.SetCache(mapRenderedCache{})
	ctx := context.Background()

	if w := site.do(t, http.MethodGet, "/sitemap.xml", ""); !strings.Contains(w.Body.String(), "https://blog.example.com/blog") {
		t.Fatalf("unexpected sitemap: %s", w.Body.String())
	}
	if w := site.do(t, http.MethodGet, "/feed.xml", ""); strings.Contains(w.Body.String(), "Second Post") {
		t.Fatalf("feed should not list unpublished post yet")
	}

	defaults := service.DefaultSiteSetting(site.container.Config.Site, site.container.Config.Content)
	if _, err := site.container.SettingService.SaveSiteSetting(ctx, service.SiteSetting{
		SEO: service.SEOSetting{BaseURL: "https://moved.example.com"},
	}, defaults); err != nil {
		t.Fatalf("save site setting failed: %v", err)
	}
	w := site.do(t, http.MethodGet, "/sitemap.xml", "")
	if strings.Contains(w.Body.String(), "https://blog.example.com") || !strings.Contains(w.Body.String(), "https://moved.example.com/blog") {
		t.Fatalf("sitemap should follow the saved base url: %s", w.Body.String())
	}

	publishedAt := time.Now().UTC().Add(-time.Minute)
	if _, err := site.container.PublishService.Publish(ctx, service.PublishPostInput{
		Title:       "Second Post",
		Content:     "<p>more</p>",
		Status:      constants.PostStatusPublished,
		PublishedAt: &publishedAt,
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if w := site.do(t, http.MethodGet, "/feed.xml", ""); !strings.Contains(w.Body.String(), "Second Post") {
		t.Fatalf("feed should list the new post: %s", w.Body.String())
	}
}
