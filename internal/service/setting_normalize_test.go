package service

import (
	"context"
	"testing"

	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/models"
)

type mockSettingRepo struct {
	store map[string]models.JSON
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{store: map[string]models.JSON{}}
}

func (m *mockSettingRepo) GetByKey(_ context.Context, key string) (*models.Setting, error) {
	value, ok := m.store[key]
	if !ok {
		return nil, nil
	}
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func (m *mockSettingRepo) Upsert(_ context.Context, key string, value models.JSON) (*models.Setting, error) {
	m.store[key] = value
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func TestDefaultSiteSettingFromConfig(t *testing.T) {
	setting := DefaultSiteSetting(
		config.SiteConfig{Name: " My Blog ", BaseURL: "https://blog.example.com/", Description: "notes"},
		config.ContentConfig{DefaultPageSize: 0},
	)
	if setting.SEO.SiteName != "My Blog" {
		t.Fatalf("site name want My Blog got %q", setting.SEO.SiteName)
	}
	if setting.SEO.BaseURL != "https://blog.example.com" {
		t.Fatalf("base url should drop trailing slash, got %q", setting.SEO.BaseURL)
	}
	if setting.Appearance.PostsPerPage != constants.DefaultPostPageSize || setting.Appearance.Theme != "system" {
		t.Fatalf("unexpected appearance defaults: %+v", setting.Appearance)
	}
}

func TestNormalizeSiteSetting(t *testing.T) {
	fallback := SiteSetting{
		SEO:        SEOSetting{SiteName: "Fallback", BaseURL: "https://fallback.example.com"},
		Appearance: AppearanceSetting{Theme: "dark", PostsPerPage: 12},
	}
	setting := NormalizeSiteSetting(SiteSetting{
		SEO: SEOSetting{
			BaseURL:  "ftp://bad.example.com",
			Keywords: []string{" go ", "Go", "", "blog"},
		},
		Appearance: AppearanceSetting{Theme: "neon", PostsPerPage: 999},
	}, fallback)

	if setting.SEO.SiteName != "Fallback" || setting.SEO.BaseURL != "https://fallback.example.com" {
		t.Fatalf("invalid values should fall back: %+v", setting.SEO)
	}
	if len(setting.SEO.Keywords) != 2 || setting.SEO.Keywords[0] != "go" || setting.SEO.Keywords[1] != "blog" {
		t.Fatalf("keywords should be trimmed and deduplicated: %v", setting.SEO.Keywords)
	}
	if setting.Appearance.Theme != "dark" {
		t.Fatalf("unknown theme should fall back, got %s", setting.Appearance.Theme)
	}
	if setting.Appearance.PostsPerPage != constants.MaxPostPageSize {
		t.Fatalf("posts per page should be capped, got %d", setting.Appearance.PostsPerPage)
	}
}

func TestSaveAndGetSiteSetting(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)
	ctx := context.Background()
	defaults := DefaultSiteSetting(config.SiteConfig{Name: "Blog", BaseURL: "http://localhost:8080"}, config.ContentConfig{})

	if got := svc.GetSiteSetting(ctx, defaults); got.SEO.SiteName != "Blog" {
		t.Fatalf("unsaved setting should return defaults, got %+v", got)
	}

	saved, err := svc.SaveSiteSetting(ctx, SiteSetting{
		SEO:        SEOSetting{SiteName: "Engineering Notes", BaseURL: "https://notes.example.com/"},
		Appearance: AppearanceSetting{Theme: "LIGHT", PrimaryColor: "#0a7"},
	}, defaults)
	if err != nil {
		t.Fatalf("save site setting failed: %v", err)
	}
	if saved.Appearance.Theme != "light" || saved.SEO.BaseURL != "https://notes.example.com" {
		t.Fatalf("saved setting not normalized: %+v", saved)
	}
	if _, ok := repo.store[constants.SettingKeySiteConfig]; !ok {
		t.Fatalf("setting should be persisted under site_config")
	}

	loaded := svc.GetSiteSetting(ctx, defaults)
	if loaded.SEO.SiteName != "Engineering Notes" || loaded.Appearance.PrimaryColor != "#0a7" {
		t.Fatalf("loaded setting mismatch: %+v", loaded)
	}
	if loaded.Appearance.PostsPerPage != constants.DefaultPostPageSize {
		t.Fatalf("posts per page should fall back to default, got %d", loaded.Appearance.PostsPerPage)
	}
}
