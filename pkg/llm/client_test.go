package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_SendsChatRequest(t *testing.T) {
	var got chatRequest
	var auth, contentType, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	out, err := c.Complete(context.Background(),
		Endpoint{BaseURL: srv.URL + "/v1/", APIKey: "sk-test", Model: "gpt-test"},
		[]Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "hi"}},
	)
	require.NoError(t, err)

	assert.Equal(t, "hello there", out)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "gpt-test", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "hi"}}, got.Messages)
}

func TestComplete_Non2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client()).Complete(context.Background(), Endpoint{BaseURL: srv.URL, APIKey: "k", Model: "m"}, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestComplete_MalformedReplies(t *testing.T) {
	tests := map[string]string{
		"not json":        `<html>gateway</html>`,
		"no choices":      `{"object":"chat.completion"}`,
		"empty choices":   `{"choices":[]}`,
		"content not str": `{"choices":[{"message":{"content":42}}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.Client()).Complete(context.Background(), Endpoint{BaseURL: srv.URL, APIKey: "k", Model: "m"}, nil)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestComplete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(nil).Complete(context.Background(), Endpoint{BaseURL: url, APIKey: "k", Model: "m"}, nil)
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
	assert.NotErrorIs(t, err, ErrMalformedResponse)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com/v1/chat/completions", Endpoint{BaseURL: "https://api.example.com/v1"}.URL())
	assert.Equal(t, "https://api.example.com/v1/chat/completions", Endpoint{BaseURL: " https://api.example.com/v1// "}.URL())
}
