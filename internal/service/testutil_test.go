package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/models"
	"github.com/blogcraft/internal/queue"
	"github.com/blogcraft/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

var errBackendDown = errors.New("backend down")

type testRepos struct {
	db         *gorm.DB
	posts      *repository.GormPostRepository
	categories *repository.GormCategoryRepository
	tags       *repository.GormTagRepository
	comments   *repository.GormCommentRepository
	settings   *repository.GormSettingRepository
	counters   *repository.GormCounterRepository
}

func openServiceTestDB(t *testing.T) testRepos {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
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
	return testRepos{
		db:         db,
		posts:      repository.NewPostRepository(db),
		categories: repository.NewCategoryRepository(db),
		tags:       repository.NewTagRepository(db),
		comments:   repository.NewCommentRepository(db),
		settings:   repository.NewSettingRepository(db),
		counters:   repository.NewCounterRepository(db),
	}
}

func seedPost(t *testing.T, db *gorm.DB, slug, status string, hoursAgo int, categoryID *uint) *models.Post {
	t.Helper()
	post := &models.Post{
		Slug:       slug,
		Title:      "Post " + slug,
		Content:    "<p>content of " + slug + "</p>",
		Status:     status,
		CategoryID: categoryID,
	}
	if status == constants.PostStatusPublished {
		publishedAt := testNow.Add(-time.Duration(hoursAgo) * time.Hour)
		post.PublishedAt = &publishedAt
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed post %s failed: %v", slug, err)
	}
	return post
}

func fixedNow() time.Time {
	return testNow
}

// stubPostRepo 可控的文章仓库，用于覆盖后端失败与调用次数
type stubPostRepo struct {
	mu             sync.Mutex
	err            error
	posts          []models.Post
	searchCalls    int
	incrementCalls []uint
	incremented    chan uint
}

func (r *stubPostRepo) List(_ context.Context, _ repository.PostQuery) ([]models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.posts, nil
}

func (r *stubPostRepo) Get(_ context.Context, _ repository.PostQuery) (*models.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.posts) == 0 {
		return nil, nil
	}
	return &r.posts[0], nil
}

func (r *stubPostRepo) Search(_ context.Context, query repository.SearchQuery) ([]models.Post, error) {
	r.mu.Lock()
	r.searchCalls++
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if query.Limit > 0 && len(r.posts) > query.Limit {
		return r.posts[:query.Limit], nil
	}
	return r.posts, nil
}

func (r *stubPostRepo) IncrementViews(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	r.incrementCalls = append(r.incrementCalls, id)
	r.mu.Unlock()
	if r.incremented != nil {
		r.incremented <- id
	}
	if r.err != nil {
		return 0, r.err
	}
	return 1, nil
}

func (r *stubPostRepo) Create(_ context.Context, _ *models.Post) error {
	return r.err
}

func (r *stubPostRepo) LinkTags(_ context.Context, _ uint, _ []uint) error {
	return r.err
}

func (r *stubPostRepo) CountBySlug(_ context.Context, _ string) (int64, error) {
	return 0, r.err
}

func (r *stubPostRepo) calls() (int, []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.searchCalls, append([]uint(nil), r.incrementCalls...)
}

// stubViewQueue 记录投递的浏览量任务
type stubViewQueue struct {
	mu       sync.Mutex
	enabled  bool
	err      error
	payloads []queue.PostViewIncrementPayload
}

func (q *stubViewQueue) Enabled() bool {
	return q.enabled
}

func (q *stubViewQueue) EnqueuePostViewIncrement(payload queue.PostViewIncrementPayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return q.err
}

func (q *stubViewQueue) enqueued() []queue.PostViewIncrementPayload {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.PostViewIncrementPayload(nil), q.payloads...)
}

// memoryRenderedCache 进程内的渲染缓存
type memoryRenderedCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemoryRenderedCache() *memoryRenderedCache {
	return &memoryRenderedCache{entries: map[string]string{}}
}

func (c *memoryRenderedCache) GetString(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok, nil
}

func (c *memoryRenderedCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryRenderedCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}
