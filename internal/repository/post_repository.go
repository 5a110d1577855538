package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(ctx context.Context, query PostQuery) ([]models.Post, error)
	Get(ctx context.Context, query PostQuery) (*models.Post, error)
	Search(ctx context.Context, query SearchQuery) ([]models.Post, error)
	IncrementViews(ctx context.Context, id uint) (int64, error)
	Create(ctx context.Context, post *models.Post) error
	LinkTags(ctx context.Context, postID uint, tagIDs []uint) error
	CountBySlug(ctx context.Context, slug string) (int64, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List 按发布时间倒序返回文章窗口，关联的作者、分类、标签一并加载
func (r *GormPostRepository) List(ctx context.Context, query PostQuery) ([]models.Post, error) {
	var posts []models.Post
	db := withPostRelations(r.scoped(ctx, query))
	db = applyWindow(db, query.Limit, query.Offset)
	if err := db.Order(defaultPostOrder).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Get 获取单篇文章，不存在时返回 nil, nil
func (r *GormPostRepository) Get(ctx context.Context, query PostQuery) (*models.Post, error) {
	var post models.Post
	db := withPostRelations(r.scoped(ctx, query))
	if err := db.Order(defaultPostOrder).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Search 在公开文章中按标题、正文、标签名做子串匹配，按相关度排序
func (r *GormPostRepository) Search(ctx context.Context, query SearchQuery) ([]models.Post, error) {
	term := strings.TrimSpace(query.Term)
	if term == "" {
		return []models.Post{}, nil
	}
	dialect := dbDialectName(r.db)
	pattern := buildContainsPattern(searchTermByDialect(dialect, term))
	titleCond := likeConditionByDialect(dialect, searchColumnByDialect(dialect, "posts.title"))
	contentCond := likeConditionByDialect(dialect, searchColumnByDialect(dialect, "posts.content"))
	tagCond := tagNameMatchCondition(dialect)

	db := r.scoped(ctx, PostQuery{OnlyPublished: true, Now: query.Now})
	db = db.Where(fmt.Sprintf("(%s OR %s OR %s)", titleCond, contentCond, tagCond), repeatLikeArgs(pattern, 3)...)

	// 标题命中 4 分，标签命中 2 分，正文命中 1 分
	rank := fmt.Sprintf(
		"(CASE WHEN %s THEN 4 ELSE 0 END + CASE WHEN %s THEN 2 ELSE 0 END + CASE WHEN %s THEN 1 ELSE 0 END) DESC, %s",
		titleCond, tagCond, contentCond, defaultPostOrder,
	)
	db = db.Order(clause.OrderBy{Expression: clause.Expr{
		SQL:                rank,
		Vars:               repeatLikeArgs(pattern, 3),
		WithoutParentheses: true,
	}})
	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}

	var posts []models.Post
	if err := withPostRelations(db).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementViews 浏览量原子加一，返回受影响行数
func (r *GormPostRepository) IncrementViews(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("COALESCE(views, 0) + ?", 1))
	return result.RowsAffected, result.Error
}

// Create 创建文章
func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// LinkTags 写入文章与标签的关联，已存在的关联忽略
func (r *GormPostRepository) LinkTags(ctx context.Context, postID uint, tagIDs []uint) error {
	if postID == 0 || len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.PostTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.PostTag{PostID: postID, TagID: tagID})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// CountBySlug 统计 slug 数量
func (r *GormPostRepository) CountBySlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// 未发布文章（published_at 为空）排在最后
const defaultPostOrder = "posts.published_at IS NULL, posts.published_at DESC, posts.id ASC"

func (r *GormPostRepository) scoped(ctx context.Context, query PostQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Post{})
	if query.OnlyPublished {
		db = db.Where("posts.status = ?", constants.PostStatusPublished).
			Where("posts.published_at IS NOT NULL AND posts.published_at <= ?", resolveNow(query.Now))
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		db = db.Where("posts.status = ?", status)
	}
	if query.ID != 0 {
		db = db.Where("posts.id = ?", query.ID)
	}
	if slug := strings.TrimSpace(query.Slug); slug != "" {
		db = db.Where("posts.slug = ?", slug)
	}
	if categorySlug := strings.TrimSpace(query.CategorySlug); categorySlug != "" {
		sub := r.db.Model(&models.Category{}).Select("id").Where("slug = ?", categorySlug)
		db = db.Where("posts.category_id IN (?)", sub)
	}
	if tagSlug := strings.TrimSpace(query.TagSlug); tagSlug != "" {
		db = db.Where(
			"EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE post_tags.post_id = posts.id AND tags.slug = ?)",
			tagSlug,
		)
	}
	return db
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Category").
		Preload("PostTags", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("post_tags.tag_id ASC")
		}).
		Preload("PostTags.Tag")
}
