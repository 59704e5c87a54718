// Package extractor turns a page's DOM into a models.PageSnapshot using fixed
// selector chains. It never modifies the parsed document.
package extractor

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/llm-page-assistant/models"
)

// Options toggles the optional, heavier extraction steps.
type Options struct {
	// DetectLanguage enables statistical detection for pages that declare no
	// language and contain no CJK text.
	DetectLanguage bool

	// ReadabilityFallback distills the main text with readability before
	// falling back to the whole body.
	ReadabilityFallback bool
}

type Extractor struct {
	opts     Options
	detector lingua.LanguageDetector
	logger   *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{opts: opts, logger: logger}
	if opts.DetectLanguage {
		e.detector = NewLanguageDetector()
	}
	return e
}

// Extract parses html and builds a snapshot of it.
func (e *Extractor) Extract(rawURL, html string) (models.PageSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.PageSnapshot{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return e.ExtractDocument(rawURL, doc), nil
}

// ExtractDocument builds a snapshot from an already parsed document.
func (e *Extractor) ExtractDocument(rawURL string, doc *goquery.Document) models.PageSnapshot {
	snap := models.PageSnapshot{
		Title:       extractTitle(doc),
		URL:         rawURL,
		Language:    DetectLanguage(doc, e.detector),
		CompanyInfo: ExtractCompanyInfo(doc),
		ProductInfo: ExtractProductInfo(doc),
		MainContent: e.extractMainContent(rawURL, doc),
	}
	e.logger.Debug("page extracted",
		"url", rawURL,
		"language", snap.Language,
		"content_chars", len(snap.MainContent),
		"features", len(snap.ProductInfo.Features),
	)
	return snap
}

func extractTitle(doc *goquery.Document) string {
	if title := collapseWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return collapseWhitespace(og)
	}
	return ""
}

// ExtractCompanyInfo reads the organization fields.
func ExtractCompanyInfo(doc *goquery.Document) models.CompanyInfo {
	return models.CompanyInfo{
		Name:        firstText(doc, companyNameSelectors),
		Description: firstText(doc, companyDescriptionSelectors),
		Website:     firstTextOrAttr(doc, companyWebsiteSelectors),
		Email:       strings.TrimPrefix(firstTextOrAttr(doc, companyEmailSelectors), "mailto:"),
		Phone:       firstText(doc, companyPhoneSelectors),
		Address:     firstText(doc, companyAddressSelectors),
	}
}

// ExtractProductInfo reads the product fields and feature list.
func ExtractProductInfo(doc *goquery.Document) models.ProductInfo {
	features := []string{}
	doc.Find(productFeaturesSelector).Each(func(_ int, s *goquery.Selection) {
		if text := visibleText(s); text != "" {
			features = append(features, text)
		}
	})

	return models.ProductInfo{
		Name:        firstText(doc, productNameSelectors),
		Description: firstText(doc, productDescriptionSelectors),
		Price:       firstTextOrAttr(doc, productPriceSelectors),
		Features:    features,
	}
}

// firstText returns the text of the first element matched by the earliest
// selector in the chain that matches anything.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if match := doc.Find(sel).First(); match.Length() > 0 {
			return visibleText(match)
		}
	}
	return ""
}

// firstTextOrAttr is firstText for fields that often live in attributes,
// e.g. <meta itemprop="price" content="9.99"> or <a itemprop="url" href="...">.
func firstTextOrAttr(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if text := visibleText(match); text != "" {
			return text
		}
		for _, attr := range []string{"content", "href"} {
			if v, ok := match.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}
	return ""
}

func (e *Extractor) extractMainContent(rawURL string, doc *goquery.Document) string {
	for _, sel := range mainContentSelectors {
		if region := doc.Find(sel).First(); region.Length() > 0 {
			return cleanRegion(region)
		}
	}

	if e.opts.ReadabilityFallback {
		if text, err := readableText(rawURL, doc); err != nil {
			e.logger.Debug("readability fallback failed", "url", rawURL, "error", err)
		} else if text != "" {
			return text
		}
	}

	return cleanRegion(doc.Find("body").First())
}

// cleanRegion copies the region, drops boilerplate and returns its text.
func cleanRegion(region *goquery.Selection) string {
	if region.Length() == 0 {
		return ""
	}
	cloned := region.Clone()
	cloned.Find(boilerplateSelector).Remove()
	return visibleText(cloned)
}

// readableText runs readability over the document and returns the distilled text.
func readableText(rawURL string, doc *goquery.Document) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	html, err := doc.Html()
	if err != nil {
		return "", err
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", err
	}
	return collapseWhitespace(article.TextContent), nil
}
