package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv         = "LITERATURE_SCANNER_CONFIG"
	ncbiAPIKeyEnv         = "NCBI_API_KEY"
	ncbiEmailEnv          = "NCBI_EMAIL"
	openAIAPIKeyEnv       = "OPENAI_API_KEY"
	openAIModelEnv        = "OPENAI_MODEL"
	summarizerEndpointEnv = "SUMMARIZER_ENDPOINT"
	databaseDSNEnv        = "DATABASE_DSN"
	logLevelEnv           = "LOG_LEVEL"
	httpAddrEnv           = "HTTP_ADDR"
)

// Summarizer providers.
const (
	ProviderOpenAI = "openai"
	ProviderHTTP   = "http"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	PubMed     PubMedConfig     `yaml:"pubmed"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
}

// LoggingConfig sets the slog level (debug, info, warn, error).
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PubMedConfig describes how to reach the E-utilities API.
type PubMedConfig struct {
	BaseURL    string        `yaml:"baseUrl"`
	APIKey     string        `yaml:"apiKey"`
	Email      string        `yaml:"email"`
	Tool       string        `yaml:"tool"`
	MaxResults int           `yaml:"maxResults"`
	RateLimit  float64       `yaml:"rateLimit"`
	Timeout    time.Duration `yaml:"timeout"`
}

// FetchConfig holds the default fetch selection and the refresh cadence.
type FetchConfig struct {
	DaysWindow       int           `yaml:"daysWindow"`
	PublicationTypes []string      `yaml:"publicationTypes"`
	RefreshInterval  time.Duration `yaml:"refreshInterval"`
	Scanners         []string      `yaml:"scanners"`
}

// SummarizerConfig selects and configures the synopsis backend.
type SummarizerConfig struct {
	Provider     string        `yaml:"provider"`
	BaseURL      string        `yaml:"baseUrl"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	Endpoint     string        `yaml:"endpoint"`
	Timeout      time.Duration `yaml:"timeout"`
}

// DatabaseConfig points at the article set store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadFrom(os.Getenv(configPathEnv))
}

// LoadFrom is Load with an explicit file path; an empty path skips the file.
func LoadFrom(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	switch cfg.Summarizer.Provider {
	case ProviderOpenAI, ProviderHTTP:
	default:
		log.Printf("config: unknown summarizer provider %q, reverting to %s", cfg.Summarizer.Provider, ProviderOpenAI)
		cfg.Summarizer.Provider = ProviderOpenAI
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(ncbiAPIKeyEnv); v != "" {
		c.PubMed.APIKey = v
	}

	if v := os.Getenv(ncbiEmailEnv); v != "" {
		c.PubMed.Email = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Summarizer.Model = v
	}

	if v := os.Getenv(summarizerEndpointEnv); v != "" {
		c.Summarizer.Endpoint = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.PubMed.BaseURL != "" {
		base.PubMed.BaseURL = override.PubMed.BaseURL
	}
	if override.PubMed.APIKey != "" {
		base.PubMed.APIKey = override.PubMed.APIKey
	}
	if override.PubMed.Email != "" {
		base.PubMed.Email = override.PubMed.Email
	}
	if override.PubMed.Tool != "" {
		base.PubMed.Tool = override.PubMed.Tool
	}
	if override.PubMed.MaxResults > 0 {
		base.PubMed.MaxResults = override.PubMed.MaxResults
	}
	if override.PubMed.RateLimit > 0 {
		base.PubMed.RateLimit = override.PubMed.RateLimit
	}
	if override.PubMed.Timeout > 0 {
		base.PubMed.Timeout = override.PubMed.Timeout
	}

	if override.Fetch.DaysWindow > 0 {
		base.Fetch.DaysWindow = override.Fetch.DaysWindow
	}
	if len(override.Fetch.PublicationTypes) > 0 {
		base.Fetch.PublicationTypes = override.Fetch.PublicationTypes
	}
	if override.Fetch.RefreshInterval > 0 {
		base.Fetch.RefreshInterval = override.Fetch.RefreshInterval
	}
	if len(override.Fetch.Scanners) > 0 {
		base.Fetch.Scanners = override.Fetch.Scanners
	}

	if override.Summarizer.Provider != "" {
		base.Summarizer.Provider = override.Summarizer.Provider
	}
	if override.Summarizer.BaseURL != "" {
		base.Summarizer.BaseURL = override.Summarizer.BaseURL
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.SystemPrompt != "" {
		base.Summarizer.SystemPrompt = override.Summarizer.SystemPrompt
	}
	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}
	if override.Summarizer.Timeout > 0 {
		base.Summarizer.Timeout = override.Summarizer.Timeout
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Server.Addr != "" {
		base.Server = override.Server
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		PubMed: PubMedConfig{
			BaseURL:    "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			Tool:       "LiteratureScanner",
			MaxResults: 50,
			Timeout:    30 * time.Second,
		},
		Fetch: FetchConfig{
			DaysWindow:      30,
			RefreshInterval: time.Hour,
			Scanners:        []string{"pubmed"},
		},
		Summarizer: SummarizerConfig{
			Provider: ProviderOpenAI,
			Model:    "gpt-4o-mini",
			Timeout:  60 * time.Second,
		},
		Database: DatabaseConfig{DSN: ":memory:"},
		Server:   ServerConfig{Addr: ":8080"},
	}
}
