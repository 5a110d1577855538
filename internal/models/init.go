package models

import (
	"strings"

	"github.com/blogcraft/internal/logger"
)

const defaultAuthorName = "Editorial Team"

// EnsureDefaultAuthor 确保存在默认作者，返回其 ID
func EnsureDefaultAuthor(name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultAuthorName
	}

	var author Author
	err := DB.Where("name = ?", name).Limit(1).Find(&author).Error
	if err != nil {
		return 0, err
	}
	if author.ID != 0 {
		return author.ID, nil
	}

	author = Author{Name: name}
	if err := DB.Create(&author).Error; err != nil {
		return 0, err
	}
	logger.Infow("default_author_created", "author_id", author.ID, "name", name)
	return author.ID, nil
}
