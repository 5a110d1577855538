package repository

import "time"

// PostQuery 文章查询条件，由 service 层的视图意图转换而来
type PostQuery struct {
	ID           uint
	Slug         string
	CategorySlug string
	TagSlug      string
	Status       string
	// OnlyPublished 为 true 时要求 status=published 且 published_at <= Now
	OnlyPublished bool
	Now           time.Time
	Limit         int
	Offset        int
}

// SearchQuery 全文检索条件，检索只面向公开文章
type SearchQuery struct {
	Term  string
	Now   time.Time
	Limit int
}

func resolveNow(now time.Time) time.Time {
	if now.IsZero() {
		return time.Now().UTC()
	}
	return now.UTC()
}
