package repository

import "gorm.io/gorm"

// applyWindow 应用 limit/offset 窗口，统一处理非法值。
func applyWindow(query *gorm.DB, limit, offset int) *gorm.DB {
	if query == nil || limit <= 0 {
		return query
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
