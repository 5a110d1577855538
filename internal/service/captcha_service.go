package service

import (
	"strings"
	"sync"
	"time"

	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/constants"

	"github.com/mojocn/base64Captcha"
)

const captchaImageSource = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaPublicSetting 前台可见的验证码配置
type CaptchaPublicSetting struct {
	Provider string `json:"provider"`
}

// CaptchaService 评论验证码服务
type CaptchaService struct {
	mu     sync.Mutex
	cfg    config.CaptchaConfig
	store  base64Captcha.Store
	driver base64Captcha.Driver
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: NormalizeCaptchaConfig(cfg)}
}

// NormalizeCaptchaConfig 规范化验证码配置
func NormalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider != constants.CaptchaProviderImage {
		cfg.Provider = constants.CaptchaProviderNone
	}
	cfg.Length = clampInt(cfg.Length, 4, 8, 5)
	cfg.Width = clampInt(cfg.Width, 80, 600, 240)
	cfg.Height = clampInt(cfg.Height, 30, 200, 80)
	cfg.NoiseCount = clampInt(cfg.NoiseCount, 0, 20, 2)
	cfg.ShowLine = clampInt(cfg.ShowLine, 0, 20, 2)
	cfg.ExpireSeconds = clampInt(cfg.ExpireSeconds, 30, 3600, 300)
	cfg.MaxStore = clampInt(cfg.MaxStore, 100, 1000000, 10240)
	return cfg
}

// Enabled 是否启用验证码
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Provider == constants.CaptchaProviderImage
}

// PublicSetting 前台可见配置
func (s *CaptchaService) PublicSetting() CaptchaPublicSetting {
	if !s.Enabled() {
		return CaptchaPublicSetting{Provider: constants.CaptchaProviderNone}
	}
	return CaptchaPublicSetting{Provider: s.cfg.Provider}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaConfigInvalid
	}
	store, driver := s.ensureImage()
	captcha := base64Captcha.NewCaptcha(driver, store)
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 校验验证码；未启用时直接通过
func (s *CaptchaService) Verify(payload CaptchaVerifyPayload) error {
	if !s.Enabled() {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	store, _ := s.ensureImage()
	if !store.Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureImage() (base64Captcha.Store, base64Captcha.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		s.store = base64Captcha.NewMemoryStore(s.cfg.MaxStore, time.Duration(s.cfg.ExpireSeconds)*time.Second)
	}
	if s.driver == nil {
		s.driver = base64Captcha.NewDriverString(
			s.cfg.Height,
			s.cfg.Width,
			s.cfg.NoiseCount,
			s.cfg.ShowLine,
			s.cfg.Length,
			captchaImageSource,
			nil,
			base64Captcha.DefaultEmbeddedFonts,
			nil,
		)
	}
	return s.store, s.driver
}

func clampInt(value, minValue, maxValue, fallback int) int {
	if value <= 0 && minValue > 0 {
		return fallback
	}
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
