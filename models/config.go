// Package models defines data structures shared by the extractor, the
// dispatcher and the session layer.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultKeywordsCount = 5
	DefaultArticleLength = 1000

	// SummaryLimit caps the content excerpt sent with keyword expansion.
	SummaryLimit = 500
)

// Setting keys as stored in the key-value settings table.
const (
	KeyAPIProvider     = "apiProvider"
	KeyBaseURL         = "baseUrl"
	KeyAPIKey          = "apiKey"
	KeyModelName       = "modelName"
	KeyEmailRolePrompt = "emailRolePrompt"
	KeySEORolePrompt   = "seoRolePrompt"
	KeyKeywordsCount   = "keywordsCount"
	KeyArticleLength   = "articleLength"
)

// SettingKeys returns every persisted configuration key.
func SettingKeys() []string {
	return []string{
		KeyAPIProvider,
		KeyBaseURL,
		KeyAPIKey,
		KeyModelName,
		KeyEmailRolePrompt,
		KeySEORolePrompt,
		KeyKeywordsCount,
		KeyArticleLength,
	}
}

// Configuration is the user editable model endpoint and prompt settings.
type Configuration struct {
	APIProvider     string `json:"apiProvider" yaml:"api_provider"`
	BaseURL         string `json:"baseUrl" yaml:"base_url"`
	APIKey          string `json:"apiKey" yaml:"api_key"`
	ModelName       string `json:"modelName" yaml:"model_name"`
	EmailRolePrompt string `json:"emailRolePrompt" yaml:"email_role_prompt"`
	SEORolePrompt   string `json:"seoRolePrompt" yaml:"seo_role_prompt"`
	KeywordsCount   int    `json:"keywordsCount" yaml:"keywords_count"`
	ArticleLength   int    `json:"articleLength" yaml:"article_length"`
}

// MissingFields lists the required settings that are empty.
func (c Configuration) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, KeyAPIKey)
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, KeyBaseURL)
	}
	if strings.TrimSpace(c.ModelName) == "" {
		missing = append(missing, KeyModelName)
	}
	return missing
}

// Validate returns an error naming every missing required setting.
func (c Configuration) Validate() error {
	if missing := c.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// EffectiveKeywordsCount returns the configured expansion size or the default.
func (c Configuration) EffectiveKeywordsCount() int {
	if c.KeywordsCount <= 0 {
		return DefaultKeywordsCount
	}
	return c.KeywordsCount
}

// EffectiveArticleLength returns the configured word target or the default.
func (c Configuration) EffectiveArticleLength() int {
	if c.ArticleLength <= 0 {
		return DefaultArticleLength
	}
	return c.ArticleLength
}

// Redacted returns a copy safe to print.
func (c Configuration) Redacted() Configuration {
	if c.APIKey == "" {
		return c
	}
	if len(c.APIKey) <= 8 {
		c.APIKey = "****"
		return c
	}
	c.APIKey = c.APIKey[:3] + "****" + c.APIKey[len(c.APIKey)-4:]
	return c
}

// ToMap flattens the configuration into setting key/value pairs.
func (c Configuration) ToMap() map[string]string {
	m := map[string]string{
		KeyAPIProvider:     c.APIProvider,
		KeyBaseURL:         c.BaseURL,
		KeyAPIKey:          c.APIKey,
		KeyModelName:       c.ModelName,
		KeyEmailRolePrompt: c.EmailRolePrompt,
		KeySEORolePrompt:   c.SEORolePrompt,
		KeyKeywordsCount:   "",
		KeyArticleLength:   "",
	}
	if c.KeywordsCount > 0 {
		m[KeyKeywordsCount] = strconv.Itoa(c.KeywordsCount)
	}
	if c.ArticleLength > 0 {
		m[KeyArticleLength] = strconv.Itoa(c.ArticleLength)
	}
	return m
}

// ConfigurationFromMap builds a configuration from stored key/value pairs.
// Unknown keys are ignored and unparsable numbers fall back to zero (default).
func ConfigurationFromMap(m map[string]string) Configuration {
	return Configuration{
		APIProvider:     m[KeyAPIProvider],
		BaseURL:         m[KeyBaseURL],
		APIKey:          m[KeyAPIKey],
		ModelName:       m[KeyModelName],
		EmailRolePrompt: m[KeyEmailRolePrompt],
		SEORolePrompt:   m[KeySEORolePrompt],
		KeywordsCount:   atoiOrZero(m[KeyKeywordsCount]),
		ArticleLength:   atoiOrZero(m[KeyArticleLength]),
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// AppConfig holds process level settings. Values come from an optional YAML
// file and the environment; CLI flags override them.
type AppConfig struct {
	DBPath   string `yaml:"db_path" env:"LPA_DB_PATH"`
	LogLevel string `yaml:"log_level" env:"LPA_LOG_LEVEL" env-default:"info"`

	HTTPAddr       string   `yaml:"http_addr" env:"LPA_HTTP_ADDR" env-default:"127.0.0.1:8787"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"LPA_ALLOWED_ORIGINS" env-separator:"," env-default:"chrome-extension://*"`

	UserAgent    string        `yaml:"user_agent" env:"LPA_USER_AGENT"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"LPA_FETCH_TIMEOUT" env-default:"30s"`
	ChromePath   string        `yaml:"chrome_path" env:"LPA_CHROME_PATH"`

	// Zero leaves model calls to the transport defaults.
	LLMTimeout time.Duration `yaml:"llm_timeout" env:"LPA_LLM_TIMEOUT" env-default:"0s"`

	DetectLanguage      bool `yaml:"detect_language" env:"LPA_DETECT_LANGUAGE" env-default:"false"`
	ReadabilityFallback bool `yaml:"readability_fallback" env:"LPA_READABILITY_FALLBACK" env-default:"false"`
}
