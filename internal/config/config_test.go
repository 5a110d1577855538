package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Content.DefaultPageSize != 10 || cfg.Content.MaxPageSize != 100 {
		t.Fatalf("unexpected page size defaults: %+v", cfg.Content)
	}
	if cfg.Comment.Captcha.Provider != "none" {
		t.Fatalf("captcha provider want none got %s", cfg.Comment.Captcha.Provider)
	}
	if cfg.Queue.Queues["default"] != 10 {
		t.Fatalf("default queue weight want 10 got %d", cfg.Queue.Queues["default"])
	}
	if cfg.Recount.Schedule == "" {
		t.Fatalf("recount schedule should have a default")
	}
}

func TestDecodeFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  port: \"9090\"\ncontent:\n  search_limit: 5\nsite:\n  base_url: https://blog.example.com\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(filepath.Join(dir, "config.yml"))
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config failed: %v", err)
	}
	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port want 9090 got %s", cfg.Server.Port)
	}
	if cfg.Content.SearchLimit != 5 {
		t.Fatalf("search limit want 5 got %d", cfg.Content.SearchLimit)
	}
	if cfg.Content.WordsPerMinute != 200 {
		t.Fatalf("words per minute should keep default, got %d", cfg.Content.WordsPerMinute)
	}
	if cfg.Site.BaseURL != "https://blog.example.com" {
		t.Fatalf("base url mismatch: %s", cfg.Site.BaseURL)
	}
}
