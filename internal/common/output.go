package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/llm-page-assistant/pkg/session"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Print writes v to stdout in the given format (yaml by default).
func Print(format string, v interface{}) error {
	return Write(os.Stdout, format, v)
}

func Write(w io.Writer, format string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case FormatYAML, "":
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q (valid: yaml, json)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ConsoleNotifier prints session notifications as coloured status lines.
type ConsoleNotifier struct {
	w io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) Notify(level session.Level, message string) {
	var prefix string
	switch level {
	case session.LevelSuccess:
		prefix = color.GreenString("✓")
	case session.LevelError:
		prefix = color.RedString("✗")
	default:
		prefix = color.BlueString("•")
	}
	fmt.Fprintf(n.w, "%s %s\n", prefix, message)
}
