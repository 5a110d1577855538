package public

import "github.com/blogcraft/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：博客读取、搜索、评论提交与站点索引均为匿名访问。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
