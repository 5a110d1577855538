package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Post 文章表
type Post struct {
	ID               uint           `gorm:"primarykey" json:"id"`                          // 主键
	Slug             string         `gorm:"uniqueIndex;not null" json:"slug"`              // 唯一标识
	Title            string         `gorm:"not null" json:"title"`                         // 标题
	Excerpt          string         `gorm:"type:text" json:"excerpt"`                      // 摘要
	Content          string         `gorm:"type:text" json:"content"`                      // 正文（HTML）
	FeaturedImageURL string         `gorm:"type:varchar(500)" json:"featured_image_url"`   // 封面图
	Status           string         `gorm:"type:varchar(20);not null;index" json:"status"` // 状态
	AuthorID         *uint          `gorm:"index" json:"author_id"`                        // 作者
	CategoryID       *uint          `gorm:"index" json:"category_id"`                      // 分类
	Views            *int64         `gorm:"default:0" json:"views"`                        // 浏览量
	CommentsCount    *int64         `gorm:"default:0" json:"comments_count"`               // 评论数（冗余）
	ReadingTime      *int           `json:"reading_time"`                                  // 阅读时长（分钟）
	MetaTitle        string         `gorm:"type:varchar(255)" json:"meta_title"`           // SEO 标题
	MetaDescription  string         `gorm:"type:varchar(500)" json:"meta_description"`     // SEO 描述
	MetaKeywords     StringArray    `gorm:"type:json" json:"meta_keywords"`                // SEO 关键词
	SearchTitle      string         `gorm:"type:varchar(255)" json:"-"`                    // 小写标题（检索用）
	SearchContent    string         `gorm:"type:text" json:"-"`                            // 小写正文（检索用）
	PublishedAt      *time.Time     `gorm:"index" json:"published_at"`                     // 发布时间
	ScheduledAt      *time.Time     `json:"scheduled_at"`                                  // 定时发布时间
	CreatedAt        time.Time      `json:"created_at"`                                    // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间

	Author   *Author   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PostTags []PostTag `gorm:"foreignKey:PostID" json:"-"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// BeforeSave 维护小写检索列，时间统一存为 UTC
func (p *Post) BeforeSave(_ *gorm.DB) error {
	p.SearchTitle = strings.ToLower(p.Title)
	p.SearchContent = strings.ToLower(p.Content)
	p.PublishedAt = utcTimePtr(p.PublishedAt)
	p.ScheduledAt = utcTimePtr(p.ScheduledAt)
	return nil
}

func utcTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// Author 作者表
type Author struct {
	ID     uint    `gorm:"primarykey" json:"id"`
	Name   string  `gorm:"not null" json:"name"`
	Bio    *string `gorm:"type:text" json:"bio"`
	Avatar *string `gorm:"type:varchar(500)" json:"avatar"`
}

// TableName 指定表名
func (Author) TableName() string {
	return "authors"
}

// Tag 标签表
type Tag struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	SearchName string    `gorm:"type:varchar(255)" json:"-"`
	PostsCount int64     `gorm:"default:0" json:"posts_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// BeforeSave 维护小写检索列
func (t *Tag) BeforeSave(_ *gorm.DB) error {
	t.SearchName = strings.ToLower(t.Name)
	return nil
}

// PostTag 文章-标签关联表
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	Tag    *Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

// TableName 指定表名
func (PostTag) TableName() string {
	return "post_tags"
}
