package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/llm-page-assistant/models"
)

// minLinguaConfidence is the confidence below which a statistical guess is ignored.
const minLinguaConfidence = 0.5

// DetectLanguage resolves the page language as a lower-case two letter code.
// Order: <html lang>, content-language meta, CJK script scan of the body text,
// the statistical detector (when not nil), then English.
func DetectLanguage(doc *goquery.Document, detector lingua.LanguageDetector) string {
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		if code := NormalizeLanguageCode(lang); code != "" {
			return code
		}
	}

	if code := metaContentLanguage(doc); code != "" {
		return code
	}

	text := visibleText(doc.Find("body").First())
	if code := DetectScript(text); code != "" {
		return code
	}

	if detector != nil {
		if code := detectStatistically(detector, text); code != "" {
			return code
		}
	}

	return models.DefaultLanguage
}

// NormalizeLanguageCode reduces a BCP 47 tag such as "en-US" or "zh_CN" to
// its two letter primary subtag. Longer subtags ("fil", "yue") give "" so
// detection moves on to the next signal.
func NormalizeLanguageCode(tag string) string {
	tag = strings.TrimSpace(tag)
	// content-language may list several languages; the first one is primary
	if i := strings.IndexByte(tag, ','); i >= 0 {
		tag = tag[:i]
	}
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	if len(tag) != 2 {
		return ""
	}
	for _, r := range tag {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return tag
}

func metaContentLanguage(doc *goquery.Document) string {
	var code string
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(strings.TrimSpace(equiv), "content-language") {
			return true
		}
		content, _ := s.Attr("content")
		code = NormalizeLanguageCode(content)
		return code == ""
	})
	return code
}

// DetectScript returns "zh", "ja" or "ko" when text contains characters of
// that script, checked in that order, and "" otherwise. Any CJK unified
// ideograph counts as Chinese, so Japanese text using kanji reports "zh".
func DetectScript(text string) string {
	var hasJapanese, hasKorean bool
	for _, r := range text {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF:
			return "zh"
		case r >= 0x3040 && r <= 0x30FF:
			hasJapanese = true
		case (r >= 0x3130 && r <= 0x318F) || (r >= 0xAC00 && r <= 0xD7AF):
			hasKorean = true
		}
	}
	if hasJapanese {
		return "ja"
	}
	if hasKorean {
		return "ko"
	}
	return ""
}

// NewLanguageDetector builds the statistical detector used for Latin and
// other non-CJK scripts.
func NewLanguageDetector() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		WithMinimumRelativeDistance(0.25).
		Build()
}

func detectStatistically(detector lingua.LanguageDetector, text string) string {
	// a few kilobytes are plenty and keep detection fast on long pages
	if len(text) > 4096 {
		n := 4096
		for n > 0 && !utf8.RuneStart(text[n]) {
			n--
		}
		text = text[:n]
	}
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	if detector.ComputeLanguageConfidence(text, lang) < minLinguaConfidence {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
