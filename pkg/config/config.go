package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	// ProviderAnthropic selects Claude for generation.
	ProviderAnthropic = "anthropic"
	// ProviderGemini selects Gemini for generation.
	ProviderGemini = "gemini"

	// DefaultOutputDir is used when defaults.output_dir is unset.
	DefaultOutputDir = "./resumes"
	// DefaultCacheTTLMinutes is used when cache.ttl_minutes is unset.
	DefaultCacheTTLMinutes = 24 * 60

	dirName = ".resume-forge"
)

// Config represents the application configuration.
type Config struct {
	Name            string             `json:"name"`
	Provider        string             `json:"provider,omitempty"`
	AnthropicAPIKey string             `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string             `json:"gemini_api_key,omitempty"`
	Models          ModelsConfig       `json:"models,omitempty"`
	Temperatures    TemperaturesConfig `json:"temperatures,omitempty"`
	EquivalenceFile string             `json:"equivalence_file,omitempty"`
	Cache           CacheConfig        `json:"cache,omitempty"`
	Pandoc          PandocConfig       `json:"pandoc"`
	Defaults        DefaultConfig      `json:"defaults"`
}

// ModelsConfig holds model selection for generation.
type ModelsConfig struct {
	Generation string `json:"generation,omitempty"`
}

// TemperaturesConfig holds the sampling temperature of each pipeline stage.
// Zero means "use the default".
type TemperaturesConfig struct {
	Normalize  float64 `json:"normalize,omitempty"`
	Extract    float64 `json:"extract,omitempty"`
	Categorize float64 `json:"categorize,omitempty"`
	Expand     float64 `json:"expand,omitempty"`
	Enhance    float64 `json:"enhance,omitempty"`
}

// CacheConfig holds digest cache settings. An empty RedisAddr keeps the cache in memory.
type CacheConfig struct {
	RedisAddr  string `json:"redis_addr,omitempty"`
	TTLMinutes int    `json:"ttl_minutes,omitempty"`
}

// PandocConfig holds pandoc-related configuration.
type PandocConfig struct {
	TemplatePath string `json:"template_path"`
	ClassFile    string `json:"class_file"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
}

// DefaultTemperatures returns the per-stage defaults.
func DefaultTemperatures() (t TemperaturesConfig) {
	t = TemperaturesConfig{
		Normalize:  0.1,
		Extract:    0.1,
		Categorize: 0.1,
		Expand:     0.7,
		Enhance:    0.4,
	}
	return t
}

// GetGenerationModel returns the generation model, or empty to let the provider pick its default.
func (c *Config) GetGenerationModel() (model string) {
	model = c.Models.Generation
	return model
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() (key string) {
	if c.Provider == ProviderGemini {
		key = c.GeminiAPIKey
		return key
	}
	key = c.AnthropicAPIKey
	return key
}

// CacheTTL returns the digest cache TTL.
func (c *Config) CacheTTL() (ttl time.Duration) {
	ttl = time.Duration(c.Cache.TTLMinutes) * time.Minute
	return ttl
}

// DefaultPath returns $HOME/.resume-forge/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, dirName, "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
// A .env file in the working directory is read first, if present.
func Load(configPath string) (cfg Config, err error) {
	// Missing .env is fine
	_ = godotenv.Load()

	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'resume-forge init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse JSON
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func (c *Config) applyEnv() {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.GeminiAPIKey = apiKey
	}
	if addr := os.Getenv("RESUME_FORGE_REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
	}
}

// Validate checks that all required configuration is present and fills defaults.
func (c *Config) Validate() (err error) {
	if c.Name == "" {
		err = errors.New("name is required in config")
		return err
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderAnthropic
	}

	switch c.Provider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
			return err
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			err = errors.New("gemini_api_key is required (set in config or GEMINI_API_KEY env var)")
			return err
		}
	default:
		err = errors.Errorf("unknown provider %q (expected %q or %q)", c.Provider, ProviderAnthropic, ProviderGemini)
		return err
	}

	if c.EquivalenceFile != "" {
		_, err = os.Stat(c.EquivalenceFile)
		if os.IsNotExist(err) {
			err = errors.Errorf("equivalence file not found: %s", c.EquivalenceFile)
			return err
		}
		err = nil
	}

	defaults := DefaultTemperatures()
	fill := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&c.Temperatures.Normalize, defaults.Normalize)
	fill(&c.Temperatures.Extract, defaults.Extract)
	fill(&c.Temperatures.Categorize, defaults.Categorize)
	fill(&c.Temperatures.Expand, defaults.Expand)
	fill(&c.Temperatures.Enhance, defaults.Enhance)

	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = DefaultCacheTTLMinutes
	}

	// Set default output_dir if not specified
	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = DefaultOutputDir
	}

	return err
}

// ValidatePandoc checks the files needed for PDF rendering.
func (c *Config) ValidatePandoc() (err error) {
	if c.Pandoc.TemplatePath == "" {
		err = errors.New("pandoc.template_path is required in config")
		return err
	}

	if c.Pandoc.ClassFile == "" {
		err = errors.New("pandoc.class_file is required in config")
		return err
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (path string, err error) {
	// Determine config file location
	path = configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return path, err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return path, err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}

	defaultConfig := Config{
		Name:            "your-name",
		Provider:        ProviderAnthropic,
		AnthropicAPIKey: "sk-ant-api03-...",
		Temperatures:    DefaultTemperatures(),
		Cache:           CacheConfig{TTLMinutes: DefaultCacheTTLMinutes},
		Pandoc: PandocConfig{
			TemplatePath: filepath.Join(homeDir, dirName, "resume-template.latex"),
			ClassFile:    filepath.Join(homeDir, dirName, "resume.cls"),
		},
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Resumes"),
		},
	}

	var data []byte
	data, err = json.Marshal(defaultConfig)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return path, err
	}

	// Empty placeholders so users can see every key they may fill in
	for _, key := range []string{"gemini_api_key", "equivalence_file", "cache.redis_addr", "models.generation"} {
		data, err = sjson.SetBytes(data, key, "")
		if err != nil {
			err = errors.Wrapf(err, "failed to add %s to default config", key)
			return path, err
		}
	}

	data = pretty.Pretty(data)

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	return path, err
}
