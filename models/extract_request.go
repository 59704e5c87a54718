package models

// ExtractRequest describes the page the extractor should snapshot.
type ExtractRequest struct {
	URL  string
	HTML string // already captured DOM; skips fetching when set

	// Render loads the page in headless Chrome instead of a plain GET.
	Render bool
}
