package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestToTask(t *testing.T) {
	snap := EmptySnapshot()
	snap.Title = "Acme"
	pc := snap.JSON()

	tests := []struct {
		req  Request
		want TaskRequest
	}{
		{Request{Type: "generateEmail", PageContent: pc}, GenerateEmail{Snapshot: snap}},
		{Request{Type: "chatMessage", Message: "hi"}, ChatMessage{Message: "hi"}},
		{Request{Type: "extractKeywords", PageContent: pc}, ExtractKeywords{Snapshot: snap}},
		{Request{Type: "generateArticle", PageContent: pc, Keywords: []string{"a"}}, GenerateArticle{Snapshot: snap, Keywords: []string{"a"}}},
		{Request{Type: "expandKeywords", PageContent: pc, Keywords: []string{"a"}}, ExpandKeywords{Snapshot: snap, Keywords: []string{"a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.req.Type, func(t *testing.T) {
			got, err := tt.req.ToTask()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// the envelope encodes back to the same task
			again, err := NewTaskRequestEnvelope(got).ToTask()
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestRequestToTask_Errors(t *testing.T) {
	_, err := Request{Type: "generateEmail"}.ToTask()
	assert.ErrorContains(t, err, "requires pageContent")

	_, err = Request{Type: "extractKeywords", PageContent: "nope"}.ToTask()
	assert.Error(t, err)

	_, err = Request{Type: "getPageContent", PageContent: EmptySnapshot().JSON()}.ToTask()
	assert.ErrorContains(t, err, "unknown task type")
}

func TestResponseFromResult(t *testing.T) {
	ok := ResponseFromResult(NewKeywordsResult(KindExtractKeywords, nil))
	assert.True(t, ok.Success)
	assert.Equal(t, []string{}, ok.Data)
	assert.Nil(t, ok.ErrorInfo)

	failed := ResponseFromResult(NewFailedResult(KindChatMessage, ErrorInfo{Type: "transport_error"}))
	assert.False(t, failed.Success)
	assert.Nil(t, failed.Data)
	assert.Equal(t, "request failed", failed.Error)
	assert.Equal(t, "transport_error", failed.ErrorInfo.Type)
}

func TestNewUnknownTypeResponse(t *testing.T) {
	resp := NewUnknownTypeResponse("chat", "chatMessage")
	assert.False(t, resp.Success)
	assert.Equal(t, "Message type 'chat' not recognized. Did you mean 'chatMessage'?", resp.Error)
	require.Len(t, resp.ErrorInfo.SuggestedActions, 1)
	assert.Contains(t, resp.ErrorInfo.SuggestedActions[0], "getPageContent")
}

func TestTaskResult_ExactlyOne(t *testing.T) {
	results := []TaskResult{
		NewTextResult(KindGenerateEmail, "x"),
		NewTextResult(KindChatMessage, ""),
		NewKeywordsResult(KindExpandKeywords, []string{}),
		NewFailedResult(KindGenerateArticle, ErrorInfo{Message: "boom"}),
	}
	for _, r := range results {
		assert.NotEqual(t, r.Payload() != nil, r.ErrorMessage() != "", "kind %s", r.Kind)
	}
}
