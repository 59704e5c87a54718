package models

// TaskKind is the wire discriminator of a task request.
type TaskKind string

const (
	KindGenerateEmail   TaskKind = "generateEmail"
	KindChatMessage     TaskKind = "chatMessage"
	KindExtractKeywords TaskKind = "extractKeywords"
	KindGenerateArticle TaskKind = "generateArticle"
	KindExpandKeywords  TaskKind = "expandKeywords"
)

// AllTaskKinds returns every supported task kind.
func AllTaskKinds() []TaskKind {
	return []TaskKind{
		KindGenerateEmail,
		KindChatMessage,
		KindExtractKeywords,
		KindGenerateArticle,
		KindExpandKeywords,
	}
}

// ReturnsKeywords reports whether results of this kind carry a keyword list.
func (k TaskKind) ReturnsKeywords() bool {
	return k == KindExtractKeywords || k == KindExpandKeywords
}

// TaskRequest is a closed set of request variants. Only the types in this
// file implement it.
type TaskRequest interface {
	Kind() TaskKind
	isTaskRequest()
}

// GenerateEmail asks for a business development email about the page.
type GenerateEmail struct {
	Snapshot PageSnapshot
}

// ChatMessage is a free-form message sent to the model as is.
type ChatMessage struct {
	Message string
}

// ExtractKeywords asks for the core SEO keywords of the page.
type ExtractKeywords struct {
	Snapshot PageSnapshot
}

// GenerateArticle asks for an SEO article built around Keywords.
type GenerateArticle struct {
	Snapshot PageSnapshot
	Keywords []string
}

// ExpandKeywords asks for new keywords that complement Keywords.
type ExpandKeywords struct {
	Snapshot PageSnapshot
	Keywords []string
}

func (GenerateEmail) Kind() TaskKind   { return KindGenerateEmail }
func (ChatMessage) Kind() TaskKind     { return KindChatMessage }
func (ExtractKeywords) Kind() TaskKind { return KindExtractKeywords }
func (GenerateArticle) Kind() TaskKind { return KindGenerateArticle }
func (ExpandKeywords) Kind() TaskKind  { return KindExpandKeywords }

func (GenerateEmail) isTaskRequest()   {}
func (ChatMessage) isTaskRequest()     {}
func (ExtractKeywords) isTaskRequest() {}
func (GenerateArticle) isTaskRequest() {}
func (ExpandKeywords) isTaskRequest()  {}

// SnapshotOf returns the page snapshot a request carries, if any.
func SnapshotOf(req TaskRequest) (PageSnapshot, bool) {
	switch r := req.(type) {
	case GenerateEmail:
		return r.Snapshot, true
	case ExtractKeywords:
		return r.Snapshot, true
	case GenerateArticle:
		return r.Snapshot, true
	case ExpandKeywords:
		return r.Snapshot, true
	default:
		return PageSnapshot{}, false
	}
}
