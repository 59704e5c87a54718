package models

// ErrorInfo provides structured error information.
type ErrorInfo struct {
	Type             string   `json:"error_type" yaml:"error_type"`
	Message          string   `json:"message" yaml:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty" yaml:"suggested_actions,omitempty"`
}

// TaskResult is the outcome of one dispatch: either a payload or an error, never both.
type TaskResult struct {
	Kind     TaskKind   `json:"kind" yaml:"kind"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Keywords []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewTextResult creates a successful result carrying raw model text.
func NewTextResult(kind TaskKind, text string) TaskResult {
	return TaskResult{Kind: kind, Text: text}
}

// NewKeywordsResult creates a successful result carrying a keyword list.
func NewKeywordsResult(kind TaskKind, keywords []string) TaskResult {
	if keywords == nil {
		keywords = []string{}
	}
	return TaskResult{Kind: kind, Keywords: keywords}
}

// NewFailedResult creates a failed result. An empty message is replaced so a
// failure always explains itself.
func NewFailedResult(kind TaskKind, info ErrorInfo) TaskResult {
	if info.Message == "" {
		info.Message = "request failed"
	}
	return TaskResult{Kind: kind, Error: &info}
}

// Success reports whether the result carries a payload.
func (r TaskResult) Success() bool {
	return r.Error == nil
}

// Payload returns the task specific data of a successful result, or nil.
func (r TaskResult) Payload() interface{} {
	if !r.Success() {
		return nil
	}
	if r.Kind.ReturnsKeywords() {
		if r.Keywords == nil {
			return []string{}
		}
		return r.Keywords
	}
	return r.Text
}

// ErrorMessage returns the failure message, or "" for a successful result.
func (r TaskResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Message
}
