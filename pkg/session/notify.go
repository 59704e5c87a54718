package session

// Level is the severity of a user notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows short status messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Level, string) {}
