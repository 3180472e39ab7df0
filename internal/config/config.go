package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	LLM struct {
		APIKey      string  `mapstructure:"api_key"`
		BaseURL     string  `mapstructure:"base_url"`
		Model       string  `mapstructure:"model"`
		Temperature float64 `mapstructure:"temperature"`
		MaxTokens   int     `mapstructure:"max_tokens"`
	} `mapstructure:"llm"`
	Storage struct {
		Driver      string `mapstructure:"driver"`
		OutputDir   string `mapstructure:"output_dir"`
		DatabaseURL string `mapstructure:"database_url"`
	} `mapstructure:"storage"`
	Docs struct {
		TemplateDir string `mapstructure:"template_dir"`
		Template    string `mapstructure:"template"`
	} `mapstructure:"docs"`
}

// LoadConfig loads the configuration from a file and the environment. A
// missing config file is not an error; defaults and environment variables
// are enough to run the CLI.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("BACKGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// every key needs a default so environment overrides reach Unmarshal
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("storage.driver", "file")
	viper.SetDefault("storage.output_dir", "./generated")
	viper.SetDefault("storage.database_url", "")
	viper.SetDefault("docs.template_dir", "./templates")
	viper.SetDefault("docs.template", "docs.html.tmpl")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// honor the conventional env var when no key is configured
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	config.LLM.BaseURL = normalizeBaseURL(config.LLM.BaseURL)

	return &config, nil
}

// normalizeBaseURL ensures the configured service URL is in a predictable
// form. It removes any trailing slash and leaves the scheme and path intact,
// so users can paste the URL straight from their provider's console.
func normalizeBaseURL(input string) string {
	u := strings.TrimSpace(input)
	if strings.HasSuffix(u, "/") {
		u = strings.TrimRight(u, "/")
	}
	return u
}
