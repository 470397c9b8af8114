package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nikogura/resume-forge/pkg/cache"
	"github.com/nikogura/resume-forge/pkg/config"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jane Doe", "jane-doe"},
		{"  José  O'Brien ", "jos-o-brien"},
		{"ACME--Corp!!", "acme-corp"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	got := defaultOutputPath("out", "Jane Doe", "enhanced", ".json")
	if got != filepath.Join("out", "jane-doe-enhanced.json") {
		t.Errorf("Unexpected path %q", got)
	}

	got = defaultOutputPath("out", "", "resume", ".pdf")
	if got != filepath.Join("out", "resume-resume.pdf") {
		t.Errorf("Unexpected fallback path %q", got)
	}
}

func TestGetOutputDir(t *testing.T) {
	if getOutputDir("flag", "config") != "flag" {
		t.Error("Flag value should win over config")
	}

	if getOutputDir("", "config") != "config" {
		t.Error("Config value should be used when flag is empty")
	}
}

func TestPDFOptions(t *testing.T) {
	cfg := config.Config{}
	cfg.Pandoc.TemplatePath = "/tex/resume.tex"
	cfg.Pandoc.ClassFile = "/tex/resume.cls"

	opts := pdfOptions(cfg)
	if opts.TemplatePath != "/tex/resume.tex" || opts.ClassPath != "/tex/resume.cls" || opts.Binary != "" {
		t.Errorf("Unexpected options %+v", opts)
	}
}

func TestBuildCache(t *testing.T) {
	c, closeFn := buildCache(context.Background(), config.Config{}, zerolog.Nop())
	defer closeFn()

	if _, ok := c.(*cache.Memory); !ok {
		t.Errorf("Expected in-memory cache without redis_addr, got %T", c)
	}

	cfg := config.Config{Cache: config.CacheConfig{RedisAddr: "127.0.0.1:1"}}
	c, closeRedis := buildCache(context.Background(), cfg, zerolog.Nop())
	defer closeRedis()

	r, ok := c.(*cache.Redis)
	if !ok {
		t.Fatalf("Expected redis cache with redis_addr, got %T", c)
	}

	if r.Available() {
		t.Error("Expected unreachable redis to be bypassed")
	}
}

func TestBuildGenerator(t *testing.T) {
	gen, err := buildGenerator(context.Background(), config.Config{Provider: config.ProviderAnthropic, AnthropicAPIKey: "test-key"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gen == nil {
		t.Error("Expected a generator")
	}

	_, err = buildGenerator(context.Background(), config.Config{Provider: config.ProviderGemini})
	if err == nil {
		t.Error("Expected error for gemini without an API key")
	}
}
