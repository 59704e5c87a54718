// Package dispatcher turns a typed task request into one model call and a
// typed result.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/llm-page-assistant/internal/common"
	"github.com/dtnitsch/llm-page-assistant/models"
	"github.com/dtnitsch/llm-page-assistant/pkg/llm"
	"github.com/dtnitsch/llm-page-assistant/pkg/prompt"
)

// ConfigSource loads the stored configuration. It is called on every dispatch.
type ConfigSource interface {
	LoadConfiguration(ctx context.Context) (models.Configuration, error)
}

// Completer performs one chat completion. *llm.Client implements it.
type Completer interface {
	Complete(ctx context.Context, ep llm.Endpoint, messages []llm.Message) (string, error)
}

// RunRecorder stores dispatch history. Recording failures are logged and
// never change the result.
type RunRecorder interface {
	RecordRun(ctx context.Context, run models.RunRecord) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder stores every dispatch outcome in r.
func WithRecorder(r RunRecorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// Dispatcher is safe for concurrent use. Calls are independent: there is no
// queue, no shared mutable state and no retry.
type Dispatcher struct {
	config    ConfigSource
	completer Completer
	recorder  RunRecorder
	logger    *slog.Logger
}

func New(config ConfigSource, completer Completer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		config:    config,
		completer: completer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs req to completion. The result holds either a payload or an
// error, never both.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.TaskRequest) models.TaskResult {
	start := time.Now()
	if req == nil {
		return models.NewFailedResult("", ErrorInfo(newError(InvalidRequest, "", errors.New("empty task request"))))
	}
	kind := req.Kind()

	res, err := d.dispatch(ctx, req)
	if err != nil {
		res = models.NewFailedResult(kind, ErrorInfo(err))
		d.logger.Warn("dispatch failed",
			"kind", kind,
			"error_type", KindOf(err),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	} else {
		d.logger.Info("dispatch finished", "kind", kind, "duration_ms", time.Since(start).Milliseconds())
	}

	d.record(ctx, req, res, time.Since(start))
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, req models.TaskRequest) (models.TaskResult, error) {
	kind := req.Kind()

	cfg, err := d.config.LoadConfiguration(ctx)
	if err != nil {
		return models.TaskResult{}, newError(ConfigurationMissing, kind, fmt.Errorf("failed to load settings: %w", err))
	}
	if missing := cfg.MissingFields(); len(missing) > 0 {
		return models.TaskResult{}, missingConfigError(kind, missing)
	}

	switch r := req.(type) {
	case models.GenerateEmail:
		return d.handleEmail(ctx, cfg, r)
	case models.ChatMessage:
		return d.handleChat(ctx, cfg, r)
	case models.ExtractKeywords:
		return d.handleExtractKeywords(ctx, cfg, r)
	case models.GenerateArticle:
		return d.handleArticle(ctx, cfg, r)
	case models.ExpandKeywords:
		return d.handleExpandKeywords(ctx, cfg, r)
	default:
		return models.TaskResult{}, newError(InvalidRequest, kind, fmt.Errorf("unsupported task %T", req))
	}
}

func (d *Dispatcher) handleEmail(ctx context.Context, cfg models.Configuration, r models.GenerateEmail) (models.TaskResult, error) {
	p, err := prompt.Email(cfg, r.Snapshot)
	if err != nil {
		return models.TaskResult{}, newError(InvalidRequest, r.Kind(), err)
	}
	text, err := d.complete(ctx, cfg, r.Kind(), p)
	if err != nil {
		return models.TaskResult{}, err
	}
	return models.NewTextResult(r.Kind(), text), nil
}

func (d *Dispatcher) handleChat(ctx context.Context, cfg models.Configuration, r models.ChatMessage) (models.TaskResult, error) {
	text, err := d.complete(ctx, cfg, r.Kind(), prompt.Chat(cfg, r.Message))
	if err != nil {
		return models.TaskResult{}, err
	}
	return models.NewTextResult(r.Kind(), text), nil
}

func (d *Dispatcher) handleExtractKeywords(ctx context.Context, cfg models.Configuration, r models.ExtractKeywords) (models.TaskResult, error) {
	p, err := prompt.ExtractKeywords(cfg, r.Snapshot)
	if err != nil {
		return models.TaskResult{}, newError(InvalidRequest, r.Kind(), err)
	}
	text, err := d.complete(ctx, cfg, r.Kind(), p)
	if err != nil {
		return models.TaskResult{}, err
	}
	keywords, err := ParseExtractedKeywords(text)
	if err != nil {
		return models.TaskResult{}, newError(TaskParseError, r.Kind(), err)
	}
	return models.NewKeywordsResult(r.Kind(), keywords), nil
}

func (d *Dispatcher) handleArticle(ctx context.Context, cfg models.Configuration, r models.GenerateArticle) (models.TaskResult, error) {
	p, err := prompt.Article(cfg, r.Snapshot, r.Keywords)
	if err != nil {
		return models.TaskResult{}, newError(InvalidRequest, r.Kind(), err)
	}
	text, err := d.complete(ctx, cfg, r.Kind(), p)
	if err != nil {
		return models.TaskResult{}, err
	}
	return models.NewTextResult(r.Kind(), text), nil
}

func (d *Dispatcher) handleExpandKeywords(ctx context.Context, cfg models.Configuration, r models.ExpandKeywords) (models.TaskResult, error) {
	p, err := prompt.ExpandKeywords(cfg, r.Snapshot, r.Keywords)
	if err != nil {
		return models.TaskResult{}, newError(InvalidRequest, r.Kind(), err)
	}
	text, err := d.complete(ctx, cfg, r.Kind(), p)
	if err != nil {
		return models.TaskResult{}, err
	}
	return models.NewKeywordsResult(r.Kind(), ParseKeywordList(text)), nil
}

// complete performs the single outbound call and classifies its failure.
func (d *Dispatcher) complete(ctx context.Context, cfg models.Configuration, kind models.TaskKind, p prompt.Prompt) (string, error) {
	ep := llm.Endpoint{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.ModelName}
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: p.System},
		{Role: llm.RoleUser, Content: p.User},
	}

	text, err := d.completer.Complete(ctx, ep, messages)
	if err != nil {
		if errors.Is(err, llm.ErrMalformedResponse) {
			return "", newError(ResponseFormatError, kind, err)
		}
		return "", newError(TransportError, kind, err)
	}
	return text, nil
}

func (d *Dispatcher) record(ctx context.Context, req models.TaskRequest, res models.TaskResult, elapsed time.Duration) {
	if d.recorder == nil {
		return
	}
	run := models.RunRecord{
		Kind:       req.Kind(),
		Success:    res.Success(),
		DurationMS: elapsed.Milliseconds(),
	}
	if snap, ok := models.SnapshotOf(req); ok {
		run.URL = snap.URL
		run.SnapshotHash = common.ContentHash([]byte(snap.JSON()))
	}
	if res.Error != nil {
		run.ErrorType = res.Error.Type
		run.ErrorMessage = res.Error.Message
	}
	// recorded even when ctx is already cancelled
	if err := d.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		d.logger.Warn("failed to record run", "kind", run.Kind, "error", err)
	}
}
