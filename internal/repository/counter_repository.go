package repository

import (
	"context"
	"time"

	"github.com/blogcraft/internal/constants"

	"gorm.io/gorm"
)

// CounterRepository 冗余计数重算接口
type CounterRepository interface {
	RecountCategoryPosts(ctx context.Context, now time.Time) (int64, error)
	RecountTagPosts(ctx context.Context, now time.Time) (int64, error)
	RecountPostComments(ctx context.Context) (int64, error)
}

// GormCounterRepository GORM 实现
type GormCounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository 创建计数仓库
func NewCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

const publicPostPredicate = "posts.status = ? AND posts.published_at IS NOT NULL AND posts.published_at <= ? AND posts.deleted_at IS NULL"

// RecountCategoryPosts 按公开文章重算分类文章数
func (r *GormCounterRepository) RecountCategoryPosts(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE categories SET posts_count = (SELECT COUNT(*) FROM posts WHERE posts.category_id = categories.id AND "+publicPostPredicate+")",
		constants.PostStatusPublished, resolveNow(now),
	)
	return result.RowsAffected, result.Error
}

// RecountTagPosts 按公开文章重算标签文章数
func (r *GormCounterRepository) RecountTagPosts(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE tags SET posts_count = (SELECT COUNT(*) FROM post_tags JOIN posts ON posts.id = post_tags.post_id WHERE post_tags.tag_id = tags.id AND "+publicPostPredicate+")",
		constants.PostStatusPublished, resolveNow(now),
	)
	return result.RowsAffected, result.Error
}

// RecountPostComments 按已审核评论重算文章评论数
func (r *GormCounterRepository) RecountPostComments(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE posts SET comments_count = (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.status = ?)",
		constants.CommentStatusApproved,
	)
	return result.RowsAffected, result.Error
}
