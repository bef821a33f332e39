// Package session implements the conversation state owned by one chat widget:
// an append-only transcript, the Idle/AwaitingReply reply cycle with its
// simulated typing delay, and the observers that redraw the view.
package session

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BTreeMap/PortfolioBot/internal/flow"
	"github.com/BTreeMap/PortfolioBot/internal/models"
	"github.com/BTreeMap/PortfolioBot/internal/util"
)

// DefaultReplyDelay is how long the bot "types" before its reply is appended.
const DefaultReplyDelay = 1000 * time.Millisecond

// Resolver produces the canned reply for a submitted text.
type Resolver interface {
	Lookup(input string) models.Resolution
}

// Recorder receives activity counts. *metrics.Recorder satisfies it.
type Recorder interface {
	ObserveSubmission(outcome models.SubmitOutcome)
	ObserveResolution(topic models.Topic)
	SessionOpened()
	SessionClosed()
}

type nopRecorder struct{}

func (nopRecorder) ObserveSubmission(models.SubmitOutcome) {}
func (nopRecorder) ObserveResolution(models.Topic) {}
func (nopRecorder) SessionOpened() {}
func (nopRecorder) SessionClosed() {}

// Option configures a Session.
type Option func(*Session)

// WithReplyDelay sets the simulated typing delay. Negative values are treated as zero.
func WithReplyDelay(d time.Duration) Option {
	return func(s *Session) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithTimer replaces the timer used to schedule replies.
func WithTimer(t models.Timer) Option {
	return func(s *Session) {
		if t != nil {
			s.timer = t
		}
	}
}

// WithRecorder reports submissions and resolutions to r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithWelcome seeds the transcript with a bot greeting.
func WithWelcome(text string) Option {
	return func(s *Session) {
		s.welcome = text
	}
}

// WithClock sets the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is one widget's conversation. All methods are safe to call from
// multiple goroutines, but the reply cycle admits one pending reply at a time.
type Session struct {
	id       string
	resolver Resolver
	timer    models.Timer
	recorder Recorder
	delay    time.Duration
	now      func() time.Time
	welcome  string

	mu           sync.Mutex
	transcript   []models.Message
	seeded       int
	state        models.SessionState
	pending      string
	replyTimerID string
	replyToken   uint64
	observers    []subscription
	nextSubID    SubscriptionID
	outbox       []models.Snapshot

	// notifyMu serializes observer delivery so snapshots arrive in mutation order.
	notifyMu sync.Mutex
}

// New creates an idle session answering from resolver.
func New(resolver Resolver, opts ...Option) *Session {
	s := &Session{
		id:       util.GenerateSessionID(),
		resolver: resolver,
		recorder: nopRecorder{},
		delay:    DefaultReplyDelay,
		now:      time.Now,
		state:    models.StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timer == nil {
		s.timer = flow.NewSimpleTimer()
	}
	if s.welcome != "" {
		s.transcript = append(s.transcript, s.newMessage(models.SenderBot, s.welcome))
		s.seeded = len(s.transcript)
	}

	s.recorder.SessionOpened()
	slog.Debug("Session created", "session_id", s.id, "reply_delay", s.delay, "welcome", s.welcome != "")
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Submit appends a user message and schedules the bot reply. Empty or
// whitespace-only text, a submission while a reply is pending, and any call
// after Close are silently ignored.
func (s *Session) Submit(text string) {
	s.mu.Lock()
	switch {
	case s.state == models.StateClosed:
		s.mu.Unlock()
		s.ignore(models.OutcomeIgnoredClosed)
		return
	case strings.TrimSpace(text) == "":
		s.mu.Unlock()
		s.ignore(models.OutcomeIgnoredEmpty)
		return
	case s.state == models.StateAwaitingReply:
		s.mu.Unlock()
		s.ignore(models.OutcomeIgnoredBusy)
		return
	}

	s.transcript = append(s.transcript, s.newMessage(models.SenderUser, text))
	s.pending = ""
	s.enqueueLocked()

	s.state = models.StateAwaitingReply
	s.replyToken++
	token := s.replyToken
	s.enqueueLocked()
	s.mu.Unlock()

	s.recorder.ObserveSubmission(models.OutcomeAccepted)
	slog.Debug("Session accepted submission", "session_id", s.id, "length", len(text))
	s.flush()

	// Scheduled outside the lock so a timer that runs fn inline cannot deadlock.
	timerID, err := s.timer.ScheduleAfter(s.delay, func() {
		s.deliverReply(token, text)
	})
	if err != nil {
		slog.Error("Session failed to schedule reply, replying immediately", "error", err, "session_id", s.id)
		s.deliverReply(token, text)
		return
	}

	s.mu.Lock()
	closed := s.state == models.StateClosed
	if s.state == models.StateAwaitingReply && s.replyToken == token {
		s.replyTimerID = timerID
	}
	s.mu.Unlock()

	// Close ran between scheduling and recording the ID.
	if closed {
		if err := s.timer.Cancel(timerID); err != nil {
			slog.Warn("Session failed to cancel reply timer", "error", err, "session_id", s.id, "timer_id", timerID)
		}
	}
}

// SubmitPending submits the current pending input buffer.
func (s *Session) SubmitPending() {
	s.mu.Lock()
	text := s.pending
	s.mu.Unlock()
	s.Submit(text)
}

// QuickAction pre-fills the pending input buffer with query without submitting it.
func (s *Session) QuickAction(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.StateClosed {
		return
	}
	s.pending = query
	slog.Debug("Session quick action", "session_id", s.id, "query", query)
}

// Close tears the session down: the pending reply timer is cancelled,
// observers are dropped and every later call becomes a no-op. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == models.StateClosed {
		s.mu.Unlock()
		return
	}
	wasAwaiting := s.state == models.StateAwaitingReply
	timerID := s.replyTimerID

	s.state = models.StateClosed
	// Invalidates any reply callback that already escaped cancellation.
	s.replyToken++
	s.replyTimerID = ""
	s.observers = nil
	s.outbox = nil
	s.mu.Unlock()

	if timerID != "" {
		if err := s.timer.Cancel(timerID); err != nil {
			slog.Warn("Session failed to cancel reply timer", "error", err, "session_id", s.id, "timer_id", timerID)
		}
	}
	s.recorder.SessionClosed()
	slog.Debug("Session closed", "session_id", s.id, "cancelled_reply", wasAwaiting)
}

// Transcript returns a copy of the messages in display order.
func (s *Session) Transcript() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transcript)
}

// IsComposing reports whether a bot reply is pending.
func (s *Session) IsComposing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == models.StateAwaitingReply
}

// State returns the current reply cycle state.
func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PendingInput returns the pending input buffer.
func (s *Session) PendingInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// QuickActionsVisible reports whether the quick-action shortcuts should be
// shown: only before the visitor's first message.
func (s *Session) QuickActionsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != models.StateClosed && len(s.transcript) == s.seeded
}

// Snapshot returns the current transcript and composing flag.
func (s *Session) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) deliverReply(token uint64, text string) {
	res := s.resolver.Lookup(text)

	s.mu.Lock()
	if s.state != models.StateAwaitingReply || s.replyToken != token {
		s.mu.Unlock()
		slog.Debug("Session discarded stale reply", "session_id", s.id, "state", s.state)
		return
	}

	s.transcript = append(s.transcript, s.newMessage(models.SenderBot, res.Response))
	s.enqueueLocked()

	s.state = models.StateIdle
	s.replyTimerID = ""
	s.enqueueLocked()
	s.mu.Unlock()

	s.recorder.ObserveResolution(res.Topic)
	slog.Debug("Session appended reply", "session_id", s.id, "topic", res.Topic, "trigger", res.Trigger)
	s.flush()
}

func (s *Session) ignore(outcome models.SubmitOutcome) {
	s.recorder.ObserveSubmission(outcome)
	slog.Debug("Session ignored submission", "session_id", s.id, "outcome", outcome)
}

func (s *Session) newMessage(sender models.Sender, text string) models.Message {
	return models.Message{
		ID:        util.GenerateMessageID(),
		Sender:    sender,
		Text:      text,
		Timestamp: s.now(),
	}
}

func (s *Session) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Transcript:  slices.Clone(s.transcript),
		IsComposing: s.state == models.StateAwaitingReply,
		State:       s.state,
	}
}

// enqueueLocked records the current state for delivery. Callers hold s.mu.
func (s *Session) enqueueLocked() {
	if len(s.observers) == 0 {
		return
	}
	s.outbox = append(s.outbox, s.snapshotLocked())
}
