package model

import "time"

// AnswerMsg carries the outcome of one request back into the event loop
type AnswerMsg struct {
	RequestID string
	Data      string
	Err       error
	Elapsed   time.Duration
}
