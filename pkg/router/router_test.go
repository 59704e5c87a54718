package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llm-page-assistant/models"
)

type echoDispatcher struct {
	got []models.TaskRequest
}

func (e *echoDispatcher) Dispatch(ctx context.Context, req models.TaskRequest) models.TaskResult {
	e.got = append(e.got, req)
	switch req.Kind() {
	case models.KindExtractKeywords, models.KindExpandKeywords:
		return models.NewKeywordsResult(req.Kind(), []string{"a", "b"})
	case models.KindGenerateArticle:
		return models.NewFailedResult(req.Kind(), models.ErrorInfo{Type: "transport_error", Message: "API call failed: 503 Service Unavailable"})
	default:
		return models.NewTextResult(req.Kind(), "text")
	}
}

type fakeSource struct {
	snap models.PageSnapshot
	err  error
	req  models.ExtractRequest
}

func (f *fakeSource) Snapshot(ctx context.Context, req models.ExtractRequest) (models.PageSnapshot, error) {
	f.req = req
	return f.snap, f.err
}

func snapshotJSON() string {
	snap := models.EmptySnapshot()
	snap.Title = "Acme"
	snap.URL = "https://acme.example"
	return snap.JSON()
}

func TestHandle_Tasks(t *testing.T) {
	d := &echoDispatcher{}
	r := New(nil, d, nil)
	ctx := context.Background()

	resp := r.Handle(ctx, models.Request{Type: "generateEmail", PageContent: snapshotJSON()})
	require.True(t, resp.Success)
	assert.Equal(t, "text", resp.Data)
	assert.Empty(t, resp.Error)

	resp = r.Handle(ctx, models.Request{Type: "chatMessage", Message: "hi"})
	require.True(t, resp.Success)
	assert.Equal(t, models.ChatMessage{Message: "hi"}, d.got[1])

	resp = r.Handle(ctx, models.Request{Type: "expandKeywords", PageContent: snapshotJSON(), Keywords: []string{"x"}})
	require.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	expand := d.got[2].(models.ExpandKeywords)
	assert.Equal(t, "Acme", expand.Snapshot.Title)
	assert.Equal(t, []string{"x"}, expand.Keywords)

	resp = r.Handle(ctx, models.Request{Type: "generateArticle", PageContent: snapshotJSON(), Keywords: []string{"x"}})
	require.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "API call failed: 503 Service Unavailable", resp.Error)
	assert.Equal(t, "transport_error", resp.ErrorInfo.Type)
}

func TestHandle_MalformedPageContent(t *testing.T) {
	d := &echoDispatcher{}
	r := New(nil, d, nil)

	for _, pc := range []string{"", "{not json"} {
		resp := r.Handle(context.Background(), models.Request{Type: "extractKeywords", PageContent: pc})
		require.False(t, resp.Success)
		assert.Equal(t, "invalid_request", resp.ErrorInfo.Type)
	}
	assert.Empty(t, d.got)
}

func TestHandle_UnknownType(t *testing.T) {
	r := New(nil, &echoDispatcher{}, nil)

	resp := r.Handle(context.Background(), models.Request{Type: "extractKeyword"})
	require.False(t, resp.Success)
	assert.Equal(t, "unknown_type", resp.ErrorInfo.Type)
	assert.Contains(t, resp.Error, "Did you mean 'extractKeywords'?")

	resp = r.Handle(context.Background(), models.Request{Type: "zzz"})
	assert.NotContains(t, resp.Error, "Did you mean")
}

func TestHandle_PageContent(t *testing.T) {
	src := &fakeSource{snap: models.PageSnapshot{Title: "Acme", URL: "https://acme.example", Language: "en"}}
	r := New(src, &echoDispatcher{}, nil)

	resp := r.Handle(context.Background(), models.Request{Type: "getPageContent", URL: "https://acme.example", Render: true})
	require.True(t, resp.Success)
	assert.Equal(t, src.snap, resp.Data)
	assert.Equal(t, models.ExtractRequest{URL: "https://acme.example", Render: true}, src.req)
}

func TestHandle_PageContentFailureIsEmptySnapshot(t *testing.T) {
	empty := models.EmptySnapshot()
	empty.URL = "https://down.example"
	src := &fakeSource{snap: empty, err: errors.New("connection refused")}
	r := New(src, &echoDispatcher{}, nil)

	resp := r.Handle(context.Background(), models.Request{Type: "getPageContent", URL: "https://down.example"})
	require.True(t, resp.Success)
	snap := resp.Data.(models.PageSnapshot)
	assert.True(t, snap.IsEmpty())
	assert.Equal(t, "en", snap.Language)
}

func TestSuggestType(t *testing.T) {
	tests := map[string]string{
		"generateEmails":  "generateEmail",
		"GENERATEARTICLE": "generateArticle",
		"chat":            "chatMessage",
		"expand":          "expandKeywords",
		"getPage":         "getPageContent",
		"ge":              "",
		"unknown":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, suggestType(in), "input %q", in)
	}
}
