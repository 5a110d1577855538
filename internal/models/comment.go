package models

import "time"

// Comment 评论表
type Comment struct {
	ID          uint      `gorm:"primarykey" json:"id"`                           // 主键
	PostID      uint      `gorm:"not null;index" json:"post_id"`                  // 所属文章
	AuthorName  string    `gorm:"type:varchar(100);not null" json:"author_name"`  // 评论人
	AuthorEmail string    `gorm:"type:varchar(255);not null" json:"author_email"` // 评论人邮箱
	Content     string    `gorm:"type:text;not null" json:"content"`              // 内容
	Status      string    `gorm:"type:varchar(20);not null;index" json:"status"`  // 审核状态
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
