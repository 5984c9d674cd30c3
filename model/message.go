package model

import "time"

// Origin says who produced an entry
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// Format says how Content should be interpreted
type Format string

const (
	FormatText   Format = "text"
	FormatMarkup Format = "markup"
)

// ErrorReply is the bot entry shown when an answer could not be obtained
const ErrorReply = "Error: Could not get response"

// Entry is one line of the chat transcript. Entries are never edited after creation.
type Entry struct {
	ID     string
	Origin Origin
	// Content is user text, ErrorReply, or the sanitized HTML of an answer.
	// The HTML is kept as the structured form of the answer; the terminal
	// view renders and copies Source instead.
	Content string
	Source  string // answer markup as received, empty for other entries

	Format    Format
	Timestamp time.Time
}

// IsAnswer reports whether the entry is a successful bot answer
func (e Entry) IsAnswer() bool {
	return e.Origin == OriginBot && e.Format == FormatMarkup
}
