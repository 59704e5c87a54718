package dispatcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/llm-page-assistant/models"
)

// ErrorKind classifies why a dispatch failed.
type ErrorKind string

const (
	ConfigurationMissing ErrorKind = "configuration_missing"
	TransportError       ErrorKind = "transport_error"
	ResponseFormatError  ErrorKind = "response_format_error"
	TaskParseError       ErrorKind = "task_parse_error"
	InvalidRequest       ErrorKind = "invalid_request"
)

// ErrKeywordsNotFound is the parse failure of keyword extraction.
var ErrKeywordsNotFound = errors.New("could not locate keywords in model output")

// Error is a failed dispatch. Every error is terminal; nothing is retried.
type Error struct {
	Kind ErrorKind
	Task models.TaskKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, task models.TaskKind, err error) *Error {
	return &Error{Kind: kind, Task: task, Err: err}
}

// KindOf returns the classification of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// ErrorInfo converts a dispatch error into the structured form sent to the UI.
func ErrorInfo(err error) models.ErrorInfo {
	var de *Error
	if !errors.As(err, &de) {
		return models.ErrorInfo{Type: string(TransportError), Message: err.Error()}
	}

	info := models.ErrorInfo{Type: string(de.Kind), Message: de.Error()}
	switch de.Kind {
	case ConfigurationMissing:
		info.SuggestedActions = []string{
			"Open the settings and enter API Key, Base URL and Model Name",
			"lpa settings set --api-key ... --base-url ... --model ...",
		}
	case TransportError:
		info.SuggestedActions = []string{"Check the base URL, API key and network connectivity"}
	case ResponseFormatError:
		info.SuggestedActions = []string{"Check that the endpoint speaks the chat completions API"}
	case TaskParseError:
		info.SuggestedActions = []string{"Try again; the model did not follow the requested format"}
	}
	return info
}

// MissingConfiguration is the error for empty required settings.
func MissingConfiguration(missing []string) error {
	return missingConfigError("", missing)
}

func missingConfigError(task models.TaskKind, missing []string) *Error {
	return newError(ConfigurationMissing, task,
		fmt.Errorf("please configure %s in the settings first", strings.Join(missing, ", ")))
}
