package model

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"qachat/config"
)

// Asker sends one question to the Q&A backend and returns the answer markup
type Asker interface {
	Ask(ctx context.Context, message string) (string, error)
}

// MarkupRenderer converts answer markup into sanitized structural markup
type MarkupRenderer interface {
	HTML(markup string) string
}

var (
	ErrEmptyDraft      = errors.New("draft is empty")
	ErrRequestInFlight = errors.New("an answer is still pending")
	errNoBackend       = errors.New("no Q&A backend configured")
)

type Options struct {
	StartOpen    bool
	SingleFlight bool          // reject submits while an answer is pending
	Timeout      time.Duration // zero leaves timing to the transport
}

// Widget holds the state of one chat widget: visibility, draft, transcript and
// pending requests. It is not safe for concurrent use; the event loop owns it.
type Widget struct {
	asker    Asker
	renderer MarkupRenderer
	opts     Options

	open     bool
	draft    string
	inFlight int
	store    Store

	now func() time.Time
}

func NewWidget(asker Asker, renderer MarkupRenderer, opts Options) *Widget {
	return &Widget{
		asker:    asker,
		renderer: renderer,
		opts:     opts,
		open:     opts.StartOpen,
		now:      time.Now,
	}
}

func (w *Widget) Toggle() {
	w.open = !w.open
}

func (w *Widget) IsOpen() bool {
	return w.open
}

// SetDraft replaces the draft verbatim
func (w *Widget) SetDraft(text string) {
	w.draft = text
}

func (w *Widget) Draft() string {
	return w.draft
}

// IsLoading reports whether any request is between dispatch and settlement
func (w *Widget) IsLoading() bool {
	return w.inFlight > 0
}

func (w *Widget) InFlight() int {
	return w.inFlight
}

func (w *Widget) Len() int {
	return w.store.Len()
}

func (w *Widget) Entry(i int) Entry {
	return w.store.At(i)
}

func (w *Widget) Transcript() []Entry {
	return w.store.Entries()
}

func (w *Widget) LastAnswer() (Entry, bool) {
	return w.store.LastAnswer()
}

// Request is a submission that has been recorded and awaits dispatch
type Request struct {
	ID      string
	Message string
}

// BeginSubmit validates the draft, appends the user entry, marks the request
// in flight and clears the draft. Nothing changes when it returns an error.
func (w *Widget) BeginSubmit() (Request, error) {
	if strings.TrimSpace(w.draft) == "" {
		return Request{}, ErrEmptyDraft
	}
	if w.opts.SingleFlight && w.inFlight > 0 {
		return Request{}, ErrRequestInFlight
	}

	req := Request{
		ID:      uuid.NewString(),
		Message: w.draft,
	}

	w.store.Append(Entry{
		ID:        req.ID,
		Origin:    OriginUser,
		Content:   req.Message,
		Format:    FormatText,
		Timestamp: w.now(),
	})
	w.inFlight++
	w.draft = ""

	return req, nil
}

// Dispatch returns the command that performs req. The command runs off the
// event loop and reports back with an AnswerMsg.
func (w *Widget) Dispatch(req Request) tea.Cmd {
	asker := w.asker
	timeout := w.opts.Timeout

	return func() tea.Msg {
		if asker == nil {
			return AnswerMsg{RequestID: req.ID, Err: errNoBackend}
		}

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		config.Log.Debug().Str("request_id", req.ID).Int("chars", len(req.Message)).Msg("sending question")

		start := time.Now()
		data, err := asker.Ask(ctx, req.Message)

		return AnswerMsg{
			RequestID: req.ID,
			Data:      data,
			Err:       err,
			Elapsed:   time.Since(start),
		}
	}
}

// Submit runs BeginSubmit and, when it succeeds, returns the dispatch command.
func (w *Widget) Submit() (tea.Cmd, error) {
	req, err := w.BeginSubmit()
	if err != nil {
		return nil, err
	}
	return w.Dispatch(req), nil
}

// Settle records the outcome of one request: exactly one bot entry is
// appended and the request stops counting as in flight. Returns the new index.
func (w *Widget) Settle(msg AnswerMsg) int {
	if w.inFlight > 0 {
		w.inFlight--
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Origin:    OriginBot,
		Timestamp: w.now(),
	}

	if msg.Err != nil {
		config.Log.Error().Err(msg.Err).Str("request_id", msg.RequestID).Dur("elapsed", msg.Elapsed).Msg("could not get response")
		entry.Content = ErrorReply
		entry.Format = FormatText
	} else {
		config.Log.Debug().Str("request_id", msg.RequestID).Dur("elapsed", msg.Elapsed).Int("chars", len(msg.Data)).Msg("answer received")
		entry.Content = w.renderer.HTML(msg.Data)
		entry.Source = msg.Data
		entry.Format = FormatMarkup
	}

	return w.store.Append(entry)
}
