package ui

// answerRenderedMsg carries the terminal rendering of one answer. Width is the
// message column width it was rendered for; stale widths are dropped.
type answerRenderedMsg struct {
	Index    int
	Width    int
	Rendered string
}

// clipboardMsg reports the result of copying an answer
type clipboardMsg struct {
	err error
}
