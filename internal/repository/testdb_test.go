package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate content models failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

var testBaseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type postFixture struct {
	slug       string
	title      string
	content    string
	status     string
	hoursAgo   int
	categoryID *uint
	tagIDs     []uint
}

func createTestPost(t *testing.T, db *gorm.DB, fx postFixture) *models.Post {
	t.Helper()
	status := fx.status
	if status == "" {
		status = constants.PostStatusPublished
	}
	title := fx.title
	if title == "" {
		title = "Post " + fx.slug
	}
	post := &models.Post{
		Slug:       fx.slug,
		Title:      title,
		Content:    fx.content,
		Status:     status,
		CategoryID: fx.categoryID,
	}
	if status == constants.PostStatusPublished {
		publishedAt := testBaseTime.Add(-time.Duration(fx.hoursAgo) * time.Hour)
		post.PublishedAt = &publishedAt
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post %s failed: %v", fx.slug, err)
	}
	for _, tagID := range fx.tagIDs {
		if err := db.Create(&models.PostTag{PostID: post.ID, TagID: tagID}).Error; err != nil {
			t.Fatalf("link tag failed: %v", err)
		}
	}
	return post
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string, active bool) *models.Category {
	t.Helper()
	category := &models.Category{Name: strings.ToUpper(slug), Slug: slug, IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if !active {
		// default:true 会吞掉零值，需要单独更新
		if err := db.Model(category).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate category failed: %v", err)
		}
		category.IsActive = false
	}
	return category
}

func createTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-"))}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("create tag failed: %v", err)
	}
	return tag
}

func postSlugs(posts []models.Post) []string {
	slugs := make([]string, 0, len(posts))
	for _, post := range posts {
		slugs = append(slugs, post.Slug)
	}
	return slugs
}
