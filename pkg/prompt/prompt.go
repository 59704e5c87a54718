// Package prompt builds the system and user prompts for each task kind.
package prompt

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/dtnitsch/llm-page-assistant/models"
)

// Default system prompts used when the matching role prompt is not configured.
const (
	DefaultEmailSystem   = "You are a professional international trade expert."
	DefaultChatSystem    = "You are a helpful assistant."
	DefaultSEOSystem     = "You are an SEO expert."
	DefaultArticleSystem = "You are an SEO content expert."
)

// KeywordsMarker labels the keyword section the model is asked to produce.
const KeywordsMarker = "Keywords:"

// EnglishEmailMarker opens the English half of a bilingual email.
const EnglishEmailMarker = "=== English Email ==="

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Prompt is the message pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// LanguageLabel returns the name of a language in that language ("中文" for
// "zh"), or the code itself when it is unknown.
func LanguageLabel(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// LanguageEmailMarker opens the second, non-English half of a bilingual email.
func LanguageEmailMarker(code string) string {
	return "=== " + LanguageLabel(code) + " Email ==="
}

type pageData struct {
	Title       string
	URL         string
	CompanyJSON string
	ProductJSON string
	MainContent string
}

func newPageData(snap models.PageSnapshot) pageData {
	product := snap.ProductInfo
	if product.Features == nil {
		product.Features = []string{}
	}
	return pageData{
		Title:       snap.Title,
		URL:         snap.URL,
		CompanyJSON: mustJSON(snap.CompanyInfo),
		ProductJSON: mustJSON(product),
		MainContent: snap.MainContent,
	}
}

// Email builds the business development email prompt. Pages in a language
// other than English ask for an English and a native version separated by
// section markers.
func Email(cfg models.Configuration, snap models.PageSnapshot) (Prompt, error) {
	lang := snap.Language
	if lang == "" {
		lang = models.DefaultLanguage
	}
	data := struct {
		pageData
		Bilingual      bool
		LanguageLabel  string
		EnglishMarker  string
		LanguageMarker string
	}{
		pageData:       newPageData(snap),
		Bilingual:      lang != models.DefaultLanguage,
		LanguageLabel:  LanguageLabel(lang),
		EnglishMarker:  EnglishEmailMarker,
		LanguageMarker: LanguageEmailMarker(lang),
	}

	user, err := render("email.tmpl", data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: orDefault(cfg.EmailRolePrompt, DefaultEmailSystem), User: user}, nil
}

// Chat passes the message through unchanged.
func Chat(cfg models.Configuration, message string) Prompt {
	return Prompt{System: orDefault(cfg.EmailRolePrompt, DefaultChatSystem), User: message}
}

// ExtractKeywords asks for a summary and a labeled keyword section.
func ExtractKeywords(cfg models.Configuration, snap models.PageSnapshot) (Prompt, error) {
	data := struct {
		pageData
		Marker string
	}{newPageData(snap), KeywordsMarker}

	user, err := render("extract_keywords.tmpl", data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: orDefault(cfg.SEORolePrompt, DefaultSEOSystem), User: user}, nil
}

// Article asks for an SEO article around keywords.
func Article(cfg models.Configuration, snap models.PageSnapshot, keywords []string) (Prompt, error) {
	data := struct {
		pageData
		Keywords      string
		ArticleLength int
	}{newPageData(snap), strings.Join(keywords, ", "), cfg.EffectiveArticleLength()}

	user, err := render("article.tmpl", data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: orDefault(cfg.SEORolePrompt, DefaultArticleSystem), User: user}, nil
}

// ExpandKeywords asks for a bare comma separated list of new keywords.
func ExpandKeywords(cfg models.Configuration, snap models.PageSnapshot, keywords []string) (Prompt, error) {
	data := struct {
		pageData
		Keywords      string
		Summary       string
		KeywordsCount int
	}{
		pageData:      newPageData(snap),
		Keywords:      strings.Join(keywords, ", "),
		Summary:       snap.ContentSummary(models.SummaryLimit),
		KeywordsCount: cfg.EffectiveKeywordsCount(),
	}

	user, err := render("expand_keywords.tmpl", data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: orDefault(cfg.SEORolePrompt, DefaultSEOSystem), User: user}, nil
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func mustJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimSpace(buf.String())
}
