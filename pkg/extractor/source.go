package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/llm-page-assistant/models"
)

// HTMLFetcher acquires page HTML. *fetcher.Fetcher implements it.
type HTMLFetcher interface {
	GetHtml(ctx context.Context, url string) (string, error)
	Render(ctx context.Context, url string) (string, error)
}

// ErrNoPage is returned when a request names neither HTML nor a URL.
var ErrNoPage = errors.New("no page loaded")

// Source is the page extractor capability: it acquires a page and snapshots it.
type Source struct {
	fetcher   HTMLFetcher
	extractor *Extractor
	logger    *slog.Logger
}

func NewSource(f HTMLFetcher, e *Extractor, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{fetcher: f, extractor: e, logger: logger}
}

// Snapshot always returns a usable snapshot. When the page cannot be acquired
// or parsed the snapshot is models.EmptySnapshot (with the URL kept) and the
// cause is returned alongside it.
func (s *Source) Snapshot(ctx context.Context, req models.ExtractRequest) (models.PageSnapshot, error) {
	html, err := s.acquire(ctx, req)
	if err != nil {
		s.logger.Warn("page unavailable, using empty snapshot", "url", req.URL, "error", err)
		return emptyFor(req.URL), err
	}

	snap, err := s.extractor.Extract(req.URL, html)
	if err != nil {
		s.logger.Warn("page could not be parsed, using empty snapshot", "url", req.URL, "error", err)
		return emptyFor(req.URL), err
	}
	return snap, nil
}

func (s *Source) acquire(ctx context.Context, req models.ExtractRequest) (string, error) {
	if req.HTML != "" {
		return req.HTML, nil
	}
	if req.URL == "" {
		return "", ErrNoPage
	}
	if s.fetcher == nil {
		return "", fmt.Errorf("%w: no fetcher configured for %s", ErrNoPage, req.URL)
	}
	if req.Render {
		return s.fetcher.Render(ctx, req.URL)
	}
	return s.fetcher.GetHtml(ctx, req.URL)
}

func emptyFor(url string) models.PageSnapshot {
	snap := models.EmptySnapshot()
	snap.URL = url
	return snap
}
