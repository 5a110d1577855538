package constants

// 文章状态常量
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusScheduled = "scheduled"
	PostStatusArchived  = "archived"
)

// 评论状态常量
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

// 前台视图类型
const (
	ViewKindAll      = "all"
	ViewKindCategory = "category"
	ViewKindTag      = "tag"
	ViewKindID       = "id"
	ViewKindSlug     = "slug"
)

// 异步队列与任务类型
const (
	QueueDefault           = "default"
	QueueLow               = "low"
	TaskPostViewIncrement  = "post:view_increment"
	TaskContentRecount     = "content:recount"
	RecountTaskUniqueKeyID = "content:recount:singleton"
)

// 系统设置键
const (
	SettingKeySiteConfig = "site_config"
)

// 缓存键
const (
	CacheKeyPublicConfig = "public:config"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 内容默认值
const (
	DefaultPostPageSize    = 10
	MaxPostPageSize        = 100
	DefaultSearchLimit     = 10
	MaxSearchLimit         = 50
	DefaultWordsPerMinute  = 200
	DefaultExcerptLength   = 160
	SitemapRecentPostDays  = 7
	SitemapMaxPosts        = 1000
	FeedDefaultItems       = 20
	CommentAuthorNameMax   = 100
	CommentContentMaxRunes = 5000
)
