// Package router answers message envelopes: page snapshots come from the
// extractor, every task type goes to the dispatcher.
package router

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dtnitsch/llm-page-assistant/models"
	"github.com/dtnitsch/llm-page-assistant/pkg/dispatcher"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, req models.TaskRequest) models.TaskResult
}

type PageSource interface {
	Snapshot(ctx context.Context, req models.ExtractRequest) (models.PageSnapshot, error)
}

type Router struct {
	source     PageSource
	dispatcher Dispatcher
	logger     *slog.Logger
}

// New builds a router. source may be nil, in which case getPageContent
// always answers with an empty snapshot.
func New(source PageSource, d Dispatcher, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{source: source, dispatcher: d, logger: logger}
}

// Handle answers one envelope. It never panics on bad input.
func (r *Router) Handle(ctx context.Context, req models.Request) models.Response {
	if !isValidType(req.Type) {
		r.logger.Warn("unknown message type", "type", req.Type)
		return models.NewUnknownTypeResponse(req.Type, suggestType(req.Type))
	}

	if req.Type == models.MessageGetPageContent {
		return r.handlePageContent(ctx, req)
	}

	task, err := req.ToTask()
	if err != nil {
		return models.NewErrorResponse(models.ErrorInfo{
			Type:             string(dispatcher.InvalidRequest),
			Message:          err.Error(),
			SuggestedActions: []string{"Send pageContent as a serialized page snapshot"},
		})
	}
	return models.ResponseFromResult(r.dispatcher.Dispatch(ctx, task))
}

// handlePageContent always succeeds; a page that cannot be read yields the
// empty snapshot.
func (r *Router) handlePageContent(ctx context.Context, req models.Request) models.Response {
	if r.source == nil {
		return models.Response{Success: true, Data: models.EmptySnapshot()}
	}
	snap, err := r.source.Snapshot(ctx, models.ExtractRequest{URL: req.URL, HTML: req.HTML, Render: req.Render})
	if err != nil {
		r.logger.Warn("page snapshot failed", "url", req.URL, "error", err)
	}
	return models.Response{Success: true, Data: snap}
}

func isValidType(t string) bool {
	for _, v := range models.AllMessageTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// suggestType returns the valid type sharing the longest case-insensitive
// prefix with t, requiring at least three matching characters.
func suggestType(t string) string {
	t = strings.ToLower(t)
	best, bestLen := "", 2
	for _, v := range models.AllMessageTypes() {
		if n := commonPrefixLen(t, strings.ToLower(v)); n > bestLen {
			best, bestLen = v, n
		}
	}
	return best
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
