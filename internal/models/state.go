// Package models defines state structures for conversation sessions.
package models

import "time"

// SessionState is the reply cycle state of a conversation session.
type SessionState string

const (
	// StateIdle accepts new submissions.
	StateIdle SessionState = "idle"
	// StateAwaitingReply is between a user submission and the bot reply.
	StateAwaitingReply SessionState = "awaiting_reply"
	// StateClosed is entered once the session is torn down; it never leaves it.
	StateClosed SessionState = "closed"
)

// Snapshot is what observers receive after every transcript or state change.
type Snapshot struct {
	Transcript  []Message    `json:"transcript"`
	IsComposing bool         `json:"is_composing"`
	State       SessionState `json:"state"`
}

// TimerInfo describes one pending scheduled task.
type TimerInfo struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Remaining   string    `json:"remaining"`
	Description string    `json:"description"`
}

// Timer schedules delayed actions that can be cancelled by ID.
type Timer interface {
	// ScheduleAfter schedules fn to run after delay and returns the timer ID.
	ScheduleAfter(delay time.Duration, fn func()) (string, error)
	// Cancel cancels a scheduled function. Unknown IDs are ignored.
	Cancel(id string) error
}

// SubmitOutcome records what happened to one submission.
type SubmitOutcome string

const (
	// OutcomeAccepted means a user message was appended and a reply scheduled.
	OutcomeAccepted SubmitOutcome = "accepted"
	// OutcomeIgnoredEmpty means the text was empty after trimming.
	OutcomeIgnoredEmpty SubmitOutcome = "ignored_empty"
	// OutcomeIgnoredBusy means a reply was still pending.
	OutcomeIgnoredBusy SubmitOutcome = "ignored_busy"
	// OutcomeIgnoredClosed means the session had already been torn down.
	OutcomeIgnoredClosed SubmitOutcome = "ignored_closed"
)
