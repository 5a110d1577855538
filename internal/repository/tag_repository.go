package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/blogcraft/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository 标签数据访问接口
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	Upsert(ctx context.Context, name, slug string) (*models.Tag, error)
}

// GormTagRepository GORM 实现
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签仓库
func NewTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// List 标签列表，按文章数倒序
func (r *GormTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("posts_count DESC, id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug 根据 slug 获取标签
func (r *GormTagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", strings.TrimSpace(slug)).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// Upsert 按 slug 写入标签，slug 已存在时更新名称
func (r *GormTagRepository) Upsert(ctx context.Context, name, slug string) (*models.Tag, error) {
	tag := models.Tag{Name: name, Slug: slug}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "search_name"}),
	}).Create(&tag).Error
	if err != nil {
		return nil, err
	}
	// 冲突更新时部分驱动不回填主键
	return r.GetBySlug(ctx, slug)
}
