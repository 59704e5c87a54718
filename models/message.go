package models

import (
	"fmt"
	"strings"
)

// MessageGetPageContent asks the page extractor for a snapshot. Every other
// message type is a TaskKind.
const MessageGetPageContent = "getPageContent"

// AllMessageTypes returns every valid envelope type.
func AllMessageTypes() []string {
	types := []string{MessageGetPageContent}
	for _, k := range AllTaskKinds() {
		types = append(types, string(k))
	}
	return types
}

// Request is the envelope exchanged between the UI side, the page extractor and
// the dispatcher.
type Request struct {
	Type        string   `json:"type" yaml:"type"`
	PageContent string   `json:"pageContent,omitempty" yaml:"pageContent,omitempty"` // serialized PageSnapshot
	Message     string   `json:"message,omitempty" yaml:"message,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// getPageContent only
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	HTML   string `json:"html,omitempty" yaml:"html,omitempty"`
	Render bool   `json:"render,omitempty" yaml:"render,omitempty"`
}

// Response is the reply envelope. Data is set on success, Error on failure.
type Response struct {
	Success   bool        `json:"success" yaml:"success"`
	Data      interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Error     string      `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorInfo *ErrorInfo  `json:"errorInfo,omitempty" yaml:"errorInfo,omitempty"`
}

// ToTask decodes a task envelope into its typed request.
func (r Request) ToTask() (TaskRequest, error) {
	kind := TaskKind(r.Type)

	var snap PageSnapshot
	if kind != KindChatMessage {
		if strings.TrimSpace(r.PageContent) == "" {
			return nil, fmt.Errorf("%s requires pageContent", r.Type)
		}
		var err error
		snap, err = ParsePageSnapshot(r.PageContent)
		if err != nil {
			return nil, err
		}
	}

	switch kind {
	case KindGenerateEmail:
		return GenerateEmail{Snapshot: snap}, nil
	case KindChatMessage:
		return ChatMessage{Message: r.Message}, nil
	case KindExtractKeywords:
		return ExtractKeywords{Snapshot: snap}, nil
	case KindGenerateArticle:
		return GenerateArticle{Snapshot: snap, Keywords: r.Keywords}, nil
	case KindExpandKeywords:
		return ExpandKeywords{Snapshot: snap, Keywords: r.Keywords}, nil
	default:
		return nil, fmt.Errorf("unknown task type %q", r.Type)
	}
}

// NewTaskRequestEnvelope encodes a typed request into its wire envelope.
func NewTaskRequestEnvelope(req TaskRequest) Request {
	env := Request{Type: string(req.Kind())}
	switch r := req.(type) {
	case GenerateEmail:
		env.PageContent = r.Snapshot.JSON()
	case ChatMessage:
		env.Message = r.Message
	case ExtractKeywords:
		env.PageContent = r.Snapshot.JSON()
	case GenerateArticle:
		env.PageContent = r.Snapshot.JSON()
		env.Keywords = r.Keywords
	case ExpandKeywords:
		env.PageContent = r.Snapshot.JSON()
		env.Keywords = r.Keywords
	}
	return env
}

// ResponseFromResult converts a task result into a reply envelope.
func ResponseFromResult(res TaskResult) Response {
	if !res.Success() {
		return NewErrorResponse(*res.Error)
	}
	return Response{Success: true, Data: res.Payload()}
}

// NewErrorResponse creates a failed reply envelope.
func NewErrorResponse(info ErrorInfo) Response {
	return Response{
		Success:   false,
		Error:     info.Message,
		ErrorInfo: &info,
	}
}

// NewUnknownTypeResponse creates a response for unrecognized message types.
func NewUnknownTypeResponse(msgType string, suggestion string) Response {
	msg := "Message type '" + msgType + "' not recognized"
	if suggestion != "" {
		msg += ". Did you mean '" + suggestion + "'?"
	}

	return NewErrorResponse(ErrorInfo{
		Type:    "unknown_type",
		Message: msg,
		SuggestedActions: []string{
			"Valid types: " + strings.Join(AllMessageTypes(), ", "),
		},
	})
}
