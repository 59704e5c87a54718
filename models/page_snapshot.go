package models

import (
	"encoding/json"
	"fmt"
)

// DefaultLanguage is used when a page gives no usable language signal.
const DefaultLanguage = "en"

// CompanyInfo holds the organization fields scraped from a page.
type CompanyInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Website     string `json:"website" yaml:"website"`
	Email       string `json:"email" yaml:"email"`
	Phone       string `json:"phone" yaml:"phone"`
	Address     string `json:"address" yaml:"address"`
}

// ProductInfo holds the product fields scraped from a page.
type ProductInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       string   `json:"price" yaml:"price"`
	Features    []string `json:"features" yaml:"features"`
}

// PageSnapshot is the structured extract of a single page used as model input.
// Field names match the JSON the browser extension sends as pageContent.
type PageSnapshot struct {
	Title       string      `json:"title" yaml:"title"`
	URL         string      `json:"url" yaml:"url"`
	Language    string      `json:"language" yaml:"language"`
	CompanyInfo CompanyInfo `json:"companyInfo" yaml:"companyInfo"`
	ProductInfo ProductInfo `json:"productInfo" yaml:"productInfo"`
	MainContent string      `json:"mainContent" yaml:"mainContent"`
}

// EmptySnapshot returns the default snapshot handed out when no page could be read.
func EmptySnapshot() PageSnapshot {
	return PageSnapshot{
		Language:    DefaultLanguage,
		ProductInfo: ProductInfo{Features: []string{}},
	}
}

// IsEmpty reports whether the snapshot carries no page data beyond defaults.
func (p PageSnapshot) IsEmpty() bool {
	return p.Title == "" &&
		p.MainContent == "" &&
		p.CompanyInfo == (CompanyInfo{}) &&
		p.ProductInfo.Name == "" &&
		p.ProductInfo.Description == "" &&
		p.ProductInfo.Price == "" &&
		len(p.ProductInfo.Features) == 0
}

// ContentSummary returns at most limit characters of the main content.
func (p PageSnapshot) ContentSummary(limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(p.MainContent)
	if len(runes) <= limit {
		return p.MainContent
	}
	return string(runes[:limit])
}

// JSON serializes the snapshot into the pageContent wire form.
func (p PageSnapshot) JSON() string {
	if p.ProductInfo.Features == nil {
		p.ProductInfo.Features = []string{}
	}
	data, _ := json.Marshal(p)
	return string(data)
}

// ParsePageSnapshot decodes a serialized snapshot. Missing fields keep their defaults.
func ParsePageSnapshot(raw string) (PageSnapshot, error) {
	snap := EmptySnapshot()
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return PageSnapshot{}, fmt.Errorf("failed to decode page content: %w", err)
	}
	if snap.Language == "" {
		snap.Language = DefaultLanguage
	}
	if snap.ProductInfo.Features == nil {
		snap.ProductInfo.Features = []string{}
	}
	return snap, nil
}
