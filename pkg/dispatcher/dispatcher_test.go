package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llm-page-assistant/models"
	"github.com/dtnitsch/llm-page-assistant/pkg/llm"
	"github.com/dtnitsch/llm-page-assistant/pkg/prompt"
)

type staticConfig struct {
	cfg   models.Configuration
	err   error
	loads int
	mu    sync.Mutex
}

func (s *staticConfig) LoadConfiguration(ctx context.Context) (models.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.cfg, s.err
}

type fakeCompleter struct {
	reply string
	err   error

	mu    sync.Mutex
	calls []fakeCall
}

type fakeCall struct {
	ep       llm.Endpoint
	messages []llm.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, ep llm.Endpoint, messages []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{ep: ep, messages: messages})
	return f.reply, f.err
}

type memoryRecorder struct {
	runs []models.RunRecord
}

func (m *memoryRecorder) RecordRun(ctx context.Context, run models.RunRecord) error {
	m.runs = append(m.runs, run)
	return nil
}

func validConfig() models.Configuration {
	return models.Configuration{BaseURL: "https://llm.example/v1", APIKey: "sk-test", ModelName: "model-1"}
}

func acme() models.PageSnapshot {
	return models.PageSnapshot{
		Title:       "Acme Pumps",
		URL:         "https://acme.example",
		Language:    "en",
		CompanyInfo: models.CompanyInfo{Name: "Acme"},
		ProductInfo: models.ProductInfo{Name: "Pump X", Features: []string{}},
		MainContent: "Acme makes pumps.",
	}
}

func allRequests() []models.TaskRequest {
	return []models.TaskRequest{
		models.GenerateEmail{Snapshot: acme()},
		models.ChatMessage{Message: "hi"},
		models.ExtractKeywords{Snapshot: acme()},
		models.GenerateArticle{Snapshot: acme(), Keywords: []string{"pumps"}},
		models.ExpandKeywords{Snapshot: acme(), Keywords: []string{"pumps"}},
	}
}

// assertExactlyOne checks the payload/error exclusivity of a result.
func assertExactlyOne(t *testing.T, res models.TaskResult) {
	t.Helper()
	if res.Success() {
		assert.NotNil(t, res.Payload())
		assert.Empty(t, res.ErrorMessage())
	} else {
		assert.Nil(t, res.Payload())
		assert.NotEmpty(t, res.ErrorMessage())
	}
}

func TestDispatch_MissingConfigurationMakesNoCall(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = ""
	completer := &fakeCompleter{reply: "unused"}
	d := New(&staticConfig{cfg: cfg}, completer)

	for _, req := range allRequests() {
		res := d.Dispatch(context.Background(), req)

		require.False(t, res.Success(), "kind %s", req.Kind())
		assert.Equal(t, string(ConfigurationMissing), res.Error.Type)
		assert.Contains(t, res.Error.Message, models.KeyAPIKey)
		assertExactlyOne(t, res)
	}
	assert.Empty(t, completer.calls)
}

func TestDispatch_ConfigurationReadEveryTime(t *testing.T) {
	src := &staticConfig{cfg: validConfig()}
	d := New(src, &fakeCompleter{reply: "ok"})

	d.Dispatch(context.Background(), models.ChatMessage{Message: "one"})
	d.Dispatch(context.Background(), models.ChatMessage{Message: "two"})

	assert.Equal(t, 2, src.loads)
}

func TestDispatch_ConfigurationLoadError(t *testing.T) {
	d := New(&staticConfig{err: errors.New("disk gone")}, &fakeCompleter{})

	res := d.Dispatch(context.Background(), models.ChatMessage{Message: "hi"})
	require.False(t, res.Success())
	assert.Equal(t, string(ConfigurationMissing), res.Error.Type)
}

func TestDispatch_EnglishEmailIsSingleSection(t *testing.T) {
	completer := &fakeCompleter{reply: "Subject: Partnership\n\nDear Acme team, ..."}
	d := New(&staticConfig{cfg: validConfig()}, completer)

	res := d.Dispatch(context.Background(), models.GenerateEmail{Snapshot: acme()})
	require.True(t, res.Success())
	assert.Equal(t, "Subject: Partnership\n\nDear Acme team, ...", res.Payload())

	require.Len(t, completer.calls, 1)
	call := completer.calls[0]
	assert.Equal(t, llm.Endpoint{BaseURL: "https://llm.example/v1", APIKey: "sk-test", Model: "model-1"}, call.ep)
	require.Len(t, call.messages, 2)
	assert.Equal(t, llm.RoleSystem, call.messages[0].Role)
	assert.Equal(t, prompt.DefaultEmailSystem, call.messages[0].Content)
	assert.Equal(t, llm.RoleUser, call.messages[1].Role)
	assert.NotContains(t, call.messages[1].Content, "===")
}

func TestDispatch_ChatUsesRawMessage(t *testing.T) {
	completer := &fakeCompleter{reply: "hello"}
	cfg := validConfig()
	cfg.EmailRolePrompt = "You are Acme's assistant."
	d := New(&staticConfig{cfg: cfg}, completer)

	res := d.Dispatch(context.Background(), models.ChatMessage{Message: " what's up? "})
	require.True(t, res.Success())
	assert.Equal(t, "hello", res.Text)

	assert.Equal(t, "You are Acme's assistant.", completer.calls[0].messages[0].Content)
	assert.Equal(t, " what's up? ", completer.calls[0].messages[1].Content)
}

func TestDispatch_ExtractKeywords(t *testing.T) {
	d := New(&staticConfig{cfg: validConfig()}, &fakeCompleter{reply: "Summary:\nPumps.\n\nKeywords:\n a, b ,c"})

	res := d.Dispatch(context.Background(), models.ExtractKeywords{Snapshot: acme()})
	require.True(t, res.Success())
	assert.Equal(t, []string{"a", "b", "c"}, res.Payload())
}

func TestDispatch_ExtractKeywordsWithoutMarkerFails(t *testing.T) {
	d := New(&staticConfig{cfg: validConfig()}, &fakeCompleter{reply: "I think the keywords are pumps and water."})

	res := d.Dispatch(context.Background(), models.ExtractKeywords{Snapshot: acme()})
	require.False(t, res.Success())
	assert.Equal(t, string(TaskParseError), res.Error.Type)
	assert.Equal(t, ErrKeywordsNotFound.Error(), res.Error.Message)
	assertExactlyOne(t, res)
}

func TestDispatch_ExpandKeywords(t *testing.T) {
	d := New(&staticConfig{cfg: validConfig()}, &fakeCompleter{reply: "x, y,  z"})

	res := d.Dispatch(context.Background(), models.ExpandKeywords{Snapshot: acme(), Keywords: []string{"pumps"}})
	require.True(t, res.Success())
	assert.Equal(t, []string{"x", "y", "z"}, res.Payload())
}

func TestDispatch_ExpandKeywordsEmptyReplyIsEmptyList(t *testing.T) {
	d := New(&staticConfig{cfg: validConfig()}, &fakeCompleter{reply: ""})

	res := d.Dispatch(context.Background(), models.ExpandKeywords{Snapshot: acme(), Keywords: []string{"pumps"}})
	require.True(t, res.Success())
	assert.Equal(t, []string{}, res.Payload())
}

func TestDispatch_ArticleIsRawText(t *testing.T) {
	completer := &fakeCompleter{reply: "# Pumps\n\nBody"}
	d := New(&staticConfig{cfg: validConfig()}, completer)

	res := d.Dispatch(context.Background(), models.GenerateArticle{Snapshot: acme(), Keywords: []string{"pumps", "valves"}})
	require.True(t, res.Success())
	assert.Equal(t, "# Pumps\n\nBody", res.Text)
	assert.Contains(t, completer.calls[0].messages[1].Content, "pumps, valves")
}

func TestDispatch_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"status", &llm.StatusError{StatusCode: 502, Status: "502 Bad Gateway"}, TransportError},
		{"network", errors.New("dial tcp: connection refused"), TransportError},
		{"malformed", fmt.Errorf("%w: missing field", llm.ErrMalformedResponse), ResponseFormatError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(&staticConfig{cfg: validConfig()}, &fakeCompleter{err: tt.err})
			for _, req := range allRequests() {
				res := d.Dispatch(context.Background(), req)
				require.False(t, res.Success())
				assert.Equal(t, string(tt.want), res.Error.Type)
				assertExactlyOne(t, res)
			}
		})
	}
}

func TestDispatch_NilRequest(t *testing.T) {
	d := New(&staticConfig{cfg: validConfig()}, &fakeCompleter{})

	res := d.Dispatch(context.Background(), nil)
	require.False(t, res.Success())
	assert.Equal(t, string(InvalidRequest), res.Error.Type)
}

func TestDispatch_RecordsRuns(t *testing.T) {
	rec := &memoryRecorder{}
	d := New(&staticConfig{cfg: validConfig()}, &fakeCompleter{reply: "no marker"}, WithRecorder(rec))

	d.Dispatch(context.Background(), models.ExtractKeywords{Snapshot: acme()})
	d.Dispatch(context.Background(), models.ChatMessage{Message: "hi"})

	require.Len(t, rec.runs, 2)
	assert.Equal(t, models.KindExtractKeywords, rec.runs[0].Kind)
	assert.False(t, rec.runs[0].Success)
	assert.Equal(t, string(TaskParseError), rec.runs[0].ErrorType)
	assert.Equal(t, "https://acme.example", rec.runs[0].URL)
	assert.Len(t, rec.runs[0].SnapshotHash, 64)

	assert.Equal(t, models.KindChatMessage, rec.runs[1].Kind)
	assert.True(t, rec.runs[1].Success)
	assert.Empty(t, rec.runs[1].URL)
}

func TestDispatch_ConcurrentCallsAreIndependent(t *testing.T) {
	completer := &fakeCompleter{reply: "Keywords: a, b"}
	d := New(&staticConfig{cfg: validConfig()}, completer)

	var wg sync.WaitGroup
	results := make([]models.TaskResult, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.Dispatch(context.Background(), models.ExtractKeywords{Snapshot: acme()})
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, []string{"a", "b"}, res.Payload())
	}
	assert.Len(t, completer.calls, 20)
}

func TestDispatch_AgainstHTTPEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Summary:\nx\n\nKeywords:\npumps, valves"}}]}`))
	}))
	defer srv.Close()

	cfg := validConfig()
	cfg.BaseURL = srv.URL
	d := New(&staticConfig{cfg: cfg}, llm.NewClient(srv.Client()))

	res := d.Dispatch(context.Background(), models.ExtractKeywords{Snapshot: acme()})
	require.True(t, res.Success(), res.ErrorMessage())
	assert.Equal(t, []string{"pumps", "valves"}, res.Keywords)

	cfg.APIKey = "wrong"
	d = New(&staticConfig{cfg: cfg}, llm.NewClient(srv.Client()))
	res = d.Dispatch(context.Background(), models.ChatMessage{Message: "hi"})
	require.False(t, res.Success())
	assert.Equal(t, string(TransportError), res.Error.Type)
	assert.True(t, strings.Contains(res.Error.Message, "401"), res.Error.Message)
}
