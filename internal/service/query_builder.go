package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/repository"
)

// ViewIntent 前台视图意图：列表、分类、标签、按 ID、按 slug
type ViewIntent struct {
	Kind   string
	Slug   string
	ID     uint
	Limit  int
	Offset int
}

// PageLimits 分页限制
type PageLimits struct {
	Default int
	Max     int
}

// Normalize 非正数取默认值，超出上限截断
func (l PageLimits) Normalize(limit int) int {
	def := l.Default
	if def <= 0 {
		def = constants.DefaultPostPageSize
	}
	upper := l.Max
	if upper <= 0 {
		upper = constants.MaxPostPageSize
	}
	if def > upper {
		def = upper
	}
	if limit <= 0 {
		return def
	}
	if limit > upper {
		return upper
	}
	return limit
}

// BuildPostQuery 将视图意图转换为仓库查询，公开可见性条件总是附加
func BuildPostQuery(intent ViewIntent, now time.Time, limits PageLimits) (repository.PostQuery, error) {
	query := repository.PostQuery{
		OnlyPublished: true,
		Now:           now,
	}
	slug := strings.TrimSpace(intent.Slug)

	switch strings.TrimSpace(intent.Kind) {
	case "", constants.ViewKindAll:
	case constants.ViewKindCategory:
		if slug == "" {
			return query, newValidationError("slug", "分类 slug 不能为空")
		}
		query.CategorySlug = slug
	case constants.ViewKindTag:
		if slug == "" {
			return query, newValidationError("slug", "标签 slug 不能为空")
		}
		query.TagSlug = slug
	case constants.ViewKindSlug:
		if slug == "" {
			return query, newValidationError("slug", "文章 slug 不能为空")
		}
		query.Slug = slug
		return query, nil
	case constants.ViewKindID:
		if intent.ID == 0 {
			return query, newValidationError("id", "文章 ID 无效")
		}
		query.ID = intent.ID
		return query, nil
	default:
		return query, fmt.Errorf("%w: %s", ErrInvalidViewKind, intent.Kind)
	}

	query.Limit = limits.Normalize(intent.Limit)
	query.Offset = intent.Offset
	if query.Offset < 0 {
		query.Offset = 0
	}
	return query, nil
}
