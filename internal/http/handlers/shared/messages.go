package shared

import (
	"fmt"
	"strings"
)

// messages 错误提示文案，key 与 handler 中使用的一致
var messages = map[string]string{
	"error.bad_request":             "请求参数错误",
	"error.internal":                "服务器内部错误",
	"error.not_found":               "资源不存在",
	"error.post_not_found":          "文章不存在",
	"error.post_id_invalid":         "文章 ID 无效",
	"error.category_not_found":      "分类不存在",
	"error.tag_not_found":           "标签不存在",
	"error.comment_invalid":         "评论内容无效",
	"error.comment_create_failed":   "评论提交失败",
	"error.comment_fetch_failed":    "评论获取失败",
	"error.captcha_required":        "请完成验证码",
	"error.captcha_invalid":         "验证码错误",
	"error.captcha_unavailable":     "验证码未启用",
	"error.captcha_generate_failed": "验证码生成失败",
	"error.sitemap_failed":          "站点地图生成失败",
	"error.feed_failed":             "订阅源生成失败",
	"error.rate_limited":            "请求过于频繁，请 %d 秒后再试",
	"error.rate_limit_unavailable":  "限流服务不可用",
}

// Message 返回 key 对应的提示文案，未登记的 key 原样返回
func Message(key string, args ...interface{}) string {
	key = strings.TrimSpace(key)
	text, ok := messages[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}
