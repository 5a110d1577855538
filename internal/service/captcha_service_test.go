package service

import (
	"errors"
	"testing"

	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/constants"
)

func TestCaptchaServiceDisabledPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none"})
	if svc.Enabled() {
		t.Fatalf("captcha should be disabled")
	}
	if err := svc.Verify(CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha should pass, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("disabled captcha should not generate, got %v", err)
	}
	if svc.PublicSetting().Provider != constants.CaptchaProviderNone {
		t.Fatalf("public provider should be none")
	}
}

func TestCaptchaServiceImageFlow(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "image"})
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("challenge should be filled: %+v", challenge)
	}

	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("missing code should require captcha, got %v", err)
	}
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: "unknown", CaptchaCode: "abc"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("unknown id should be invalid, got %v", err)
	}

	store, _ := svc.ensureImage()
	answer := store.Get(challenge.CaptchaID, false)
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); err != nil {
		t.Fatalf("correct answer should pass, got %v", err)
	}
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("answer should be single use, got %v", err)
	}
}

func TestNormalizeCaptchaConfig(t *testing.T) {
	cfg := NormalizeCaptchaConfig(config.CaptchaConfig{Provider: " IMAGE ", Length: 99, Width: 0})
	if cfg.Provider != constants.CaptchaProviderImage {
		t.Fatalf("provider want image got %s", cfg.Provider)
	}
	if cfg.Length != 8 || cfg.Width != 240 {
		t.Fatalf("unexpected normalized config: %+v", cfg)
	}
}
