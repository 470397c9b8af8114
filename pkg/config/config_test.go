package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, cfg Config) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("RESUME_FORGE_REDIS_ADDR", "")

	testConfig := Config{
		Name:            "test-user",
		AnthropicAPIKey: "test-key",
		Temperatures:    TemperaturesConfig{Expand: 0.9},
		Pandoc: PandocConfig{
			TemplatePath: "test-template.latex",
			ClassFile:    "test-class.cls",
		},
		Defaults: DefaultConfig{
			OutputDir: "./test-output",
		},
	}

	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AnthropicAPIKey != testConfig.AnthropicAPIKey {
		t.Errorf("Expected API key %s, got %s", testConfig.AnthropicAPIKey, cfg.AnthropicAPIKey)
	}

	if cfg.Provider != ProviderAnthropic {
		t.Errorf("Expected default provider %s, got %s", ProviderAnthropic, cfg.Provider)
	}

	if cfg.Temperatures.Expand != 0.9 {
		t.Errorf("Expected configured expand temperature 0.9, got %v", cfg.Temperatures.Expand)
	}

	if cfg.Temperatures.Enhance != 0.4 {
		t.Errorf("Expected default enhance temperature 0.4, got %v", cfg.Temperatures.Enhance)
	}

	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("Expected default cache TTL of 24h, got %v", cfg.CacheTTL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("RESUME_FORGE_REDIS_ADDR", "localhost:6380")

	cfg, err := Load(writeConfig(t, Config{Name: "test-user", Provider: "Gemini", AnthropicAPIKey: "file-key"}))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AnthropicAPIKey != "env-anthropic" {
		t.Errorf("Expected env anthropic key, got %s", cfg.AnthropicAPIKey)
	}

	if cfg.Provider != ProviderGemini {
		t.Errorf("Expected provider to be normalized to %s, got %s", ProviderGemini, cfg.Provider)
	}

	if cfg.APIKey() != "env-gemini" {
		t.Errorf("Expected gemini key for gemini provider, got %s", cfg.APIKey())
	}

	if cfg.Cache.RedisAddr != "localhost:6380" {
		t.Errorf("Expected redis addr from env, got %s", cfg.Cache.RedisAddr)
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte("{not json"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Error("Expected error loading invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name: "valid anthropic config",
			config: Config{
				Name:            "test-user",
				AnthropicAPIKey: "test-key",
			},
			wantError: false,
		},
		{
			name: "valid gemini config",
			config: Config{
				Name:         "test-user",
				Provider:     ProviderGemini,
				GeminiAPIKey: "test-key",
			},
			wantError: false,
		},
		{
			name:      "missing name",
			config:    Config{AnthropicAPIKey: "test-key"},
			wantError: true,
		},
		{
			name:      "missing API key",
			config:    Config{Name: "test-user"},
			wantError: true,
		},
		{
			name: "gemini provider with only anthropic key",
			config: Config{
				Name:            "test-user",
				Provider:        ProviderGemini,
				AnthropicAPIKey: "test-key",
			},
			wantError: true,
		},
		{
			name: "unknown provider",
			config: Config{
				Name:            "test-user",
				Provider:        "openai",
				AnthropicAPIKey: "test-key",
			},
			wantError: true,
		},
		{
			name: "nonexistent equivalence file",
			config: Config{
				Name:            "test-user",
				AnthropicAPIKey: "test-key",
				EquivalenceFile: "/nonexistent/equivalence.yaml",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{Name: "test-user", AnthropicAPIKey: "test-key"}

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Temperatures != DefaultTemperatures() {
		t.Errorf("Expected default temperatures, got %+v", cfg.Temperatures)
	}

	if cfg.Defaults.OutputDir != DefaultOutputDir {
		t.Errorf("Expected output dir %s, got %s", DefaultOutputDir, cfg.Defaults.OutputDir)
	}

	if cfg.Cache.TTLMinutes != DefaultCacheTTLMinutes {
		t.Errorf("Expected cache TTL %d, got %d", DefaultCacheTTLMinutes, cfg.Cache.TTLMinutes)
	}
}

func TestValidatePandoc(t *testing.T) {
	cfg := Config{}
	if cfg.ValidatePandoc() == nil {
		t.Error("Expected error for missing pandoc settings, got nil")
	}

	cfg.Pandoc = PandocConfig{TemplatePath: "template.latex", ClassFile: "class.cls"}
	if err := cfg.ValidatePandoc(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	path, err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	if path != configPath {
		t.Errorf("Expected path %s, got %s", configPath, path)
	}

	// Read and verify the config structure without full validation.
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}

	if cfg.Name == "" {
		t.Error("Default name was not set")
	}

	if cfg.Temperatures != DefaultTemperatures() {
		t.Errorf("Expected default temperatures in starter config, got %+v", cfg.Temperatures)
	}

	var raw map[string]any
	err = json.Unmarshal(data, &raw)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	for _, key := range []string{"gemini_api_key", "equivalence_file"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Expected placeholder key %s in starter config", key)
		}
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// Create file first.
	err := os.WriteFile(configPath, []byte("{}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Try to init - should fail.
	_, err = InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
