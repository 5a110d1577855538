package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("资源不存在")
	ErrValidation           = errors.New("参数校验失败")
	ErrInvalidViewKind      = errors.New("不支持的视图类型")
	ErrCaptchaRequired      = errors.New("请完成验证码")
	ErrCaptchaInvalid       = errors.New("验证码错误")
	ErrCaptchaConfigInvalid = errors.New("验证码配置无效")
	ErrInvalidPostStatus    = errors.New("文章状态无效")
	ErrSlugExists           = errors.New("slug 已存在")
	ErrCategoryNotFound     = errors.New("分类不存在")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field  string
	Reason string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
