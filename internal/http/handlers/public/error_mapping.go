package public

import (
	"errors"

	handlershared "github.com/blogcraft/internal/http/handlers/shared"
	"github.com/blogcraft/internal/http/response"
	"github.com/blogcraft/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

var commentReadErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.post_not_found"},
}

func respondCommentSubmitError(c *gin.Context, err error) {
	// 字段级校验错误把原因返回给前端
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.ErrorWithData(c, response.CodeBadRequest, handlershared.Message("error.comment_invalid"), gin.H{
			"field":  validationErr.Field,
			"reason": validationErr.Reason,
		})
		return
	}
	rules := append(append([]mappedHandlerError{}, captchaErrorRules...), commentReadErrorRules...)
	respondWithMappedError(c, err, rules, response.CodeInternal, "error.comment_create_failed")
}

func respondCommentListError(c *gin.Context, err error) {
	respondWithMappedError(c, err, commentReadErrorRules, response.CodeInternal, "error.comment_fetch_failed")
}
