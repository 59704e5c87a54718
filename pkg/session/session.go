// Package session holds the state of one assistant popup: the page snapshot,
// keyword tags, generated outputs, chat transcript and which controls have a
// request in flight.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/dtnitsch/llm-page-assistant/models"
)

// ChatApology is shown as the assistant turn when a chat dispatch fails.
const ChatApology = "Sorry, there was an error processing your message."

// NoPageNotice is shown when the page yielded nothing to work with.
const NoPageNotice = "No page content found. Please try refreshing the page."

var (
	ErrBusy         = errors.New("request already in progress")
	ErrNoSnapshot   = errors.New("no page content found")
	ErrNoKeywords   = errors.New("please add or extract some keywords first")
	ErrEmptyMessage = errors.New("message is empty")
	ErrEmptyEmail   = errors.New("model returned an empty email")
)

// Control is a user-triggered action. Each control has at most one request
// in flight; different controls are independent.
type Control string

const (
	ControlGenerateEmail     Control = "generateEmail"
	ControlRegenerateEmail   Control = "regenerateEmail"
	ControlSendChat          Control = "sendChat"
	ControlExtractKeywords   Control = "extractKeywords"
	ControlExpandKeywords    Control = "expandKeywords"
	ControlGenerateArticle   Control = "generateArticle"
	ControlRegenerateArticle Control = "regenerateArticle"
)

// Tab is the visible output panel.
type Tab string

const (
	TabEmail Tab = "email"
	TabChat  Tab = "chat"
	TabSEO   Tab = "seo"
)

// Dispatcher runs one task. *dispatcher.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req models.TaskRequest) models.TaskResult
}

// PageSource produces the snapshot of the current page.
type PageSource interface {
	Snapshot(ctx context.Context, req models.ExtractRequest) (models.PageSnapshot, error)
}

// TaskError is a failed dispatch as seen by the session.
type TaskError struct {
	Kind models.TaskKind
	Info models.ErrorInfo
}

func (e *TaskError) Error() string {
	return e.Info.Message
}

// ChatTurn is one line of the chat transcript.
type ChatTurn struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "ai"
)

type Option func(*Session)

func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session is safe for concurrent use by several controls.
type Session struct {
	id         string
	dispatcher Dispatcher
	notifier   Notifier
	logger     *slog.Logger

	mu         sync.Mutex
	snapshot   *models.PageSnapshot
	keywords   []string
	emails     Emails
	article    string
	transcript []ChatTurn
	activeTab  Tab
	busy       map[Control]bool
}

func New(d Dispatcher, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		dispatcher: d,
		notifier:   discardNotifier{},
		logger:     slog.Default(),
		keywords:   []string{},
		activeTab:  TabEmail,
		busy:       make(map[Control]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Open captures the page snapshot. Only the first successful call fetches;
// later calls return the cached snapshot.
func (s *Session) Open(ctx context.Context, src PageSource, req models.ExtractRequest) (models.PageSnapshot, error) {
	s.mu.Lock()
	if s.snapshot != nil {
		snap := *s.snapshot
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	snap, err := src.Snapshot(ctx, req)
	if err != nil {
		s.notifier.Notify(LevelError, NoPageNotice)
		return models.PageSnapshot{}, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}
	// not cached, so a later Open can retry once the page has loaded
	if snap.IsEmpty() {
		s.notifier.Notify(LevelError, NoPageNotice)
		return models.PageSnapshot{}, fmt.Errorf("%w: %s", ErrNoSnapshot, snap.URL)
	}
	s.SetSnapshot(snap)
	s.logger.Debug("session opened", "session_id", s.id, "url", snap.URL)
	return snap, nil
}

// SetSnapshot installs a snapshot produced elsewhere, replacing any cached one.
func (s *Session) SetSnapshot(snap models.PageSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snap
}

func (s *Session) Snapshot() (models.PageSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return models.PageSnapshot{}, false
	}
	return *s.snapshot, true
}

func (s *Session) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.keywords...)
}

func (s *Session) Emails() Emails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emails
}

func (s *Session) Article() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.article
}

func (s *Session) Transcript() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatTurn{}, s.transcript...)
}

func (s *Session) ActiveTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

func (s *Session) SelectTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeTab = t
}

// Busy reports whether control c has a request in flight.
func (s *Session) Busy(c Control) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[c]
}

// acquire marks c busy. The returned func releases it and must be deferred.
func (s *Session) acquire(c Control) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[c] {
		return nil, ErrBusy
	}
	s.busy[c] = true
	return func() {
		s.mu.Lock()
		delete(s.busy, c)
		s.mu.Unlock()
	}, nil
}

func (s *Session) requireSnapshot() (models.PageSnapshot, error) {
	snap, ok := s.Snapshot()
	if !ok {
		s.notifier.Notify(LevelError, NoPageNotice)
		return models.PageSnapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

func (s *Session) requireKeywords(msg string) ([]string, error) {
	keywords := s.Keywords()
	if len(keywords) == 0 {
		s.notifier.Notify(LevelError, msg)
		return nil, ErrNoKeywords
	}
	return keywords, nil
}

// run dispatches req and converts a failed result into a *TaskError.
func (s *Session) run(ctx context.Context, req models.TaskRequest) (models.TaskResult, error) {
	res := s.dispatcher.Dispatch(ctx, req)
	if !res.Success() {
		return res, &TaskError{Kind: req.Kind(), Info: *res.Error}
	}
	return res, nil
}

// GenerateEmail asks for an outreach email for the current page.
func (s *Session) GenerateEmail(ctx context.Context) (Emails, error) {
	return s.email(ctx, ControlGenerateEmail, "Email generated successfully!", "")
}

// RegenerateEmail is GenerateEmail behind its own control.
func (s *Session) RegenerateEmail(ctx context.Context) (Emails, error) {
	return s.email(ctx, ControlRegenerateEmail, "Email regenerated successfully!", "Failed to regenerate email")
}

func (s *Session) email(ctx context.Context, c Control, okMsg, failMsg string) (Emails, error) {
	release, err := s.acquire(c)
	if err != nil {
		return Emails{}, err
	}
	defer release()

	snap, err := s.requireSnapshot()
	if err != nil {
		return Emails{}, err
	}

	s.notifier.Notify(LevelInfo, "Generating email...")
	res, err := s.run(ctx, models.GenerateEmail{Snapshot: snap})
	if err != nil {
		s.notifier.Notify(LevelError, lo.Ternary(failMsg != "", failMsg, err.Error()))
		return Emails{}, err
	}

	emails := ParseEmails(res.Text)
	if emails.English == "" {
		s.notifier.Notify(LevelError, lo.Ternary(failMsg != "", failMsg, ErrEmptyEmail.Error()))
		return Emails{}, ErrEmptyEmail
	}

	s.mu.Lock()
	s.emails = emails
	s.mu.Unlock()
	s.notifier.Notify(LevelSuccess, okMsg)
	return emails, nil
}

// SendChat sends one user message. A failed dispatch still records an
// assistant turn carrying ChatApology, which is also returned with the error.
func (s *Session) SendChat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	release, err := s.acquire(ControlSendChat)
	if err != nil {
		return "", err
	}
	defer release()

	s.appendTurn(RoleUser, message)

	res, err := s.run(ctx, models.ChatMessage{Message: message})
	if err != nil {
		s.logger.Warn("chat failed", "session_id", s.id, "error", err)
		s.appendTurn(RoleAssistant, ChatApology)
		return ChatApology, err
	}
	s.appendTurn(RoleAssistant, res.Text)
	return res.Text, nil
}

func (s *Session) appendTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, ChatTurn{Role: role, Content: content})
}

// ExtractKeywords replaces the tag list with keywords drawn from the page.
func (s *Session) ExtractKeywords(ctx context.Context) ([]string, error) {
	release, err := s.acquire(ControlExtractKeywords)
	if err != nil {
		return nil, err
	}
	defer release()

	snap, err := s.requireSnapshot()
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(LevelInfo, "Extracting keywords...")
	res, err := s.run(ctx, models.ExtractKeywords{Snapshot: snap})
	if err != nil {
		s.notifier.Notify(LevelError, err.Error())
		return nil, err
	}

	keywords := lo.Uniq(res.Keywords)
	s.mu.Lock()
	s.keywords = append([]string{}, keywords...)
	s.mu.Unlock()
	s.notifier.Notify(LevelSuccess, "Keywords extracted successfully!")
	return keywords, nil
}

// AddKeyword adds a manual tag. It reports false for blanks and duplicates.
func (s *Session) AddKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.Contains(s.keywords, keyword) {
		return false
	}
	s.keywords = append(s.keywords, keyword)
	return true
}

// RemoveKeyword drops a tag and reports whether it was present.
func (s *Session) RemoveKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !lo.Contains(s.keywords, keyword) {
		return false
	}
	s.keywords = lo.Without(s.keywords, keyword)
	return true
}

// ExpandKeywords asks for related keywords and appends the new ones.
// It returns only the keywords that were added.
func (s *Session) ExpandKeywords(ctx context.Context) ([]string, error) {
	release, err := s.acquire(ControlExpandKeywords)
	if err != nil {
		return nil, err
	}
	defer release()

	keywords, err := s.requireKeywords("Please extract or add some keywords first")
	if err != nil {
		return nil, err
	}
	snap, err := s.requireSnapshot()
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(LevelInfo, "Expanding keywords...")
	res, err := s.run(ctx, models.ExpandKeywords{Snapshot: snap, Keywords: keywords})
	if err != nil {
		s.notifier.Notify(LevelError, err.Error())
		return nil, err
	}

	// merge against the current list, which may have changed while waiting
	s.mu.Lock()
	merged, added := MergeKeywords(s.keywords, res.Keywords)
	s.keywords = merged
	s.mu.Unlock()

	s.notifier.Notify(LevelSuccess, "Keywords expanded successfully!")
	return added, nil
}

// GenerateArticle writes an article around the current keyword tags.
func (s *Session) GenerateArticle(ctx context.Context) (string, error) {
	return s.generateArticle(ctx, ControlGenerateArticle, "Article generated successfully!", "")
}

// RegenerateArticle is GenerateArticle behind its own control.
func (s *Session) RegenerateArticle(ctx context.Context) (string, error) {
	return s.generateArticle(ctx, ControlRegenerateArticle, "Article regenerated successfully!", "Failed to regenerate article")
}

func (s *Session) generateArticle(ctx context.Context, c Control, okMsg, failMsg string) (string, error) {
	release, err := s.acquire(c)
	if err != nil {
		return "", err
	}
	defer release()

	keywords, err := s.requireKeywords("Please add some keywords first")
	if err != nil {
		return "", err
	}
	snap, err := s.requireSnapshot()
	if err != nil {
		return "", err
	}

	s.notifier.Notify(LevelInfo, "Generating article...")
	res, err := s.run(ctx, models.GenerateArticle{Snapshot: snap, Keywords: keywords})
	if err != nil {
		s.notifier.Notify(LevelError, lo.Ternary(failMsg != "", failMsg, err.Error()))
		return "", err
	}

	s.mu.Lock()
	s.article = res.Text
	s.mu.Unlock()
	s.notifier.Notify(LevelSuccess, okMsg)
	return res.Text, nil
}
