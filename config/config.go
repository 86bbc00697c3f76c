package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds the credentials and model candidates for one
// generation provider. Models are tried in the order they are listed.
type ProviderConfig struct {
	ApiKey  string   `yaml:"apiKey"`
	BaseURL string   `yaml:"baseUrl"`
	Models  []string `yaml:"models"`
}

type Config struct {
	Server struct {
		Port       int    `yaml:"port"`
		Production bool   `yaml:"production"`
		CorsOrigin string `yaml:"corsOrigin"`
	} `yaml:"server"`

	Cognito struct {
		AppClientId     string `yaml:"appClientId"`
		AppClientSecret string `yaml:"appClientSecret"`
		UserPoolId      string `yaml:"userPoolId"`
		Region          string `yaml:"region"`
	} `yaml:"cognito"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Gemini ProviderConfig `yaml:"gemini"`
	OpenAI ProviderConfig `yaml:"openai"`

	Debate struct {
		ProviderOrder  []string `yaml:"providerOrder"`
		DailyLimit     int      `yaml:"dailyLimit"`
		MaxTopicLength int      `yaml:"maxTopicLength"`
		Language       string   `yaml:"language"`
		CallTimeoutSec int      `yaml:"callTimeoutSeconds"`
		TotalBudgetSec int      `yaml:"totalBudgetSeconds"`
	} `yaml:"debate"`
}

// LoadConfig reads the YAML configuration file, then layers environment
// variables and built-in defaults on top. A missing file is not an error:
// the service is operable with nothing but provider credentials in the
// environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Database.URI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.ApiKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.ApiKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CorsOrigin == "" {
		c.Server.CorsOrigin = "http://localhost:5173"
	}
	if len(c.Gemini.Models) == 0 {
		c.Gemini.Models = []string{"gemini-1.5-flash", "gemini-1.5-flash-8b", "gemini-1.5-pro"}
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1/chat/completions"
	}
	if len(c.OpenAI.Models) == 0 {
		c.OpenAI.Models = []string{"gpt-4o-mini", "gpt-3.5-turbo"}
	}
	if len(c.Debate.ProviderOrder) == 0 {
		c.Debate.ProviderOrder = []string{"gemini", "openai"}
	}
	if c.Debate.DailyLimit == 0 {
		c.Debate.DailyLimit = 5
	}
	if c.Debate.MaxTopicLength == 0 {
		c.Debate.MaxTopicLength = 200
	}
	if c.Debate.Language == "" {
		c.Debate.Language = "es"
	}
	if c.Debate.CallTimeoutSec == 0 {
		c.Debate.CallTimeoutSec = 60
	}
	if c.Debate.TotalBudgetSec == 0 {
		// 7 sequential generation calls plus fallback retries
		c.Debate.TotalBudgetSec = 600
	}
}
