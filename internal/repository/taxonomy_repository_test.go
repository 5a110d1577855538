package repository

import (
	"context"
	"testing"

	"github.com/blogcraft/internal/models"
)

func TestCategoryRepositoryListActiveOrdersByPostsCount(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)
	small := createTestCategory(t, db, "small", true)
	big := createTestCategory(t, db, "big", true)
	createTestCategory(t, db, "hidden", false)
	db.Model(small).Update("posts_count", 1)
	db.Model(big).Update("posts_count", 5)

	ctx := context.Background()
	categories, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0].Slug != "big" || categories[1].Slug != "small" {
		t.Fatalf("unexpected categories: %+v", categories)
	}

	hidden, err := repo.GetBySlug(ctx, "hidden", true)
	if err != nil {
		t.Fatalf("get hidden category failed: %v", err)
	}
	if hidden != nil {
		t.Fatalf("inactive category should not be returned")
	}
	hidden, err = repo.GetBySlug(ctx, "hidden", false)
	if err != nil || hidden == nil {
		t.Fatalf("inactive category should be found without filter, err=%v", err)
	}
}

func TestTagRepositoryUpsertKeepsSingleRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, "Go", "go")
	if err != nil {
		t.Fatalf("upsert tag failed: %v", err)
	}
	second, err := repo.Upsert(ctx, "GO", "go")
	if err != nil {
		t.Fatalf("upsert tag again failed: %v", err)
	}
	if first.ID == 0 || first.ID != second.ID {
		t.Fatalf("upsert should keep id, first=%d second=%d", first.ID, second.ID)
	}
	if second.Name != "GO" {
		t.Fatalf("name should be updated, got %s", second.Name)
	}
	tags, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list tags failed: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("tag count want 1 got %d", len(tags))
	}
}

func TestSettingRepositoryUpsert(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	missing, err := repo.GetByKey(ctx, "site_config")
	if err != nil || missing != nil {
		t.Fatalf("missing setting should be nil, got %+v err=%v", missing, err)
	}
	if _, err := repo.Upsert(ctx, "site_config", map[string]interface{}{"title": "A"}); err != nil {
		t.Fatalf("create setting failed: %v", err)
	}
	if _, err := repo.Upsert(ctx, "site_config", map[string]interface{}{"title": "B"}); err != nil {
		t.Fatalf("update setting failed: %v", err)
	}
	setting, err := repo.GetByKey(ctx, "site_config")
	if err != nil || setting == nil {
		t.Fatalf("get setting failed: %v", err)
	}
	if setting.ValueJSON["title"] != "B" {
		t.Fatalf("setting value want B got %v", setting.ValueJSON["title"])
	}
}

func TestCommentRepositoryListApprovedOnly(t *testing.T) {
	db := openTestDB(t)
	repo := NewCommentRepository(db)
	post := createTestPost(t, db, postFixture{slug: "commented", hoursAgo: 1})
	ctx := context.Background()

	for _, item := range []struct {
		name   string
		status string
	}{
		{name: "first", status: "approved"},
		{name: "pending", status: "pending"},
		{name: "second", status: "approved"},
	} {
		comment := &models.Comment{PostID: post.ID, AuthorName: item.name, AuthorEmail: item.name + "@example.com", Content: "hi", Status: item.status}
		if err := repo.Create(ctx, comment); err != nil {
			t.Fatalf("create comment failed: %v", err)
		}
	}

	comments, err := repo.ListApproved(ctx, post.ID)
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if len(comments) != 2 || comments[0].AuthorName != "first" || comments[1].AuthorName != "second" {
		t.Fatalf("unexpected comments: %+v", comments)
	}
}
