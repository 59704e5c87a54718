package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-page-assistant/internal/app"
	"github.com/dtnitsch/llm-page-assistant/models"
)

// ShowAction prints the stored settings with the API key masked.
func ShowAction(c *cli.Context) error {
	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := a.DB.LoadConfiguration(c.Context)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	out := map[string]interface{}{
		"settings": cfg.Redacted(),
		"db_path":  a.DB.Path(),
	}
	if missing := cfg.MissingFields(); len(missing) > 0 {
		out["missing"] = missing
	}
	return a.Print(out)
}

// SetAction updates the given settings and saves the whole configuration.
// The save is rejected while a required field is still empty.
func SetAction(c *cli.Context) error {
	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := a.DB.LoadConfiguration(c.Context)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	changed := Apply(c, &cfg)
	if changed == 0 {
		return fmt.Errorf("nothing to set; see 'lpa settings set --help'")
	}

	if err := a.DB.SaveConfiguration(c.Context, cfg); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	a.Logger.Info("settings saved", "changed", changed)
	return a.Print(cfg.Redacted())
}

// GetAction prints a single stored setting. The API key is masked.
func GetAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: lpa settings get <key> (keys: %s)", strings.Join(models.SettingKeys(), ", "))
	}
	key := c.Args().First()
	if !isKey(key) {
		return fmt.Errorf("unknown setting %q (keys: %s)", key, strings.Join(models.SettingKeys(), ", "))
	}

	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	value, ok, err := a.DB.GetSetting(c.Context, key)
	if err != nil {
		return err
	}
	if key == models.KeyAPIKey {
		value = models.Configuration{APIKey: value}.Redacted().APIKey
	}
	return a.Print(map[string]interface{}{
		"key":   key,
		"value": value,
		"set":   ok,
	})
}

// PutAction writes a single setting without touching the others.
func PutAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: lpa settings put <key> <value>")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)
	if err := CheckValue(key, value); err != nil {
		return err
	}

	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.DB.SetSetting(c.Context, key, value); err != nil {
		return err
	}
	a.Logger.Info("setting saved", "key", key)
	return nil
}

// CheckValue rejects values a single-key write must not store: an empty
// required setting or a non-numeric count.
func CheckValue(key, value string) error {
	if !isKey(key) {
		return fmt.Errorf("unknown setting %q (keys: %s)", key, strings.Join(models.SettingKeys(), ", "))
	}
	switch key {
	case models.KeyAPIKey, models.KeyBaseURL, models.KeyModelName:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required and cannot be empty", key)
		}
	case models.KeyKeywordsCount, models.KeyArticleLength:
		if value == "" {
			return nil
		}
		if n, err := strconv.Atoi(value); err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
	}
	return nil
}

func isKey(key string) bool {
	return lo.Contains(models.SettingKeys(), key)
}

// Apply copies every set flag into cfg and returns how many were set.
func Apply(c *cli.Context, cfg *models.Configuration) int {
	changed := 0
	setString := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
			changed++
		}
	}
	setInt := func(flag string, dst *int) {
		if c.IsSet(flag) {
			*dst = c.Int(flag)
			changed++
		}
	}

	setString("api-provider", &cfg.APIProvider)
	setString("base-url", &cfg.BaseURL)
	setString("api-key", &cfg.APIKey)
	setString("model", &cfg.ModelName)
	setString("email-role-prompt", &cfg.EmailRolePrompt)
	setString("seo-role-prompt", &cfg.SEORolePrompt)
	setInt("keywords-count", &cfg.KeywordsCount)
	setInt("article-length", &cfg.ArticleLength)
	return changed
}

// Flags are the flags of 'settings set'.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "api-provider", Usage: "provider label, e.g. openai or deepseek"},
		&cli.StringFlag{Name: "base-url", Usage: "OpenAI compatible base URL (…/v1)"},
		&cli.StringFlag{Name: "api-key", Usage: "bearer token for the endpoint", EnvVars: []string{"LPA_API_KEY"}},
		&cli.StringFlag{Name: "model", Usage: "model name"},
		&cli.StringFlag{Name: "email-role-prompt", Usage: "system prompt for email and chat"},
		&cli.StringFlag{Name: "seo-role-prompt", Usage: "system prompt for keyword and article tasks"},
		&cli.IntFlag{Name: "keywords-count", Usage: "how many keywords expand asks for (default 5)"},
		&cli.IntFlag{Name: "article-length", Usage: "article target length in words (default 1000)"},
	}
}
