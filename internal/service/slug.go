package service

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// Slugify 生成 URL 友好的 slug，保留各语言的字母与数字
func Slugify(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	prevDash := false
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TagSlug 标签 slug：小写并把空白替换为连字符
func TagSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// buildPageURL 拼接站点地址与路径段
func buildPageURL(base string, segments ...string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(segments...))
	return u.String()
}
