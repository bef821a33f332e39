package session

import (
	"log/slog"

	"github.com/BTreeMap/PortfolioBot/internal/models"
)

// Observer is notified after every transcript append and every state transition.
type Observer interface {
	OnUpdate(snapshot models.Snapshot)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(snapshot models.Snapshot)

// OnUpdate calls f(snapshot).
func (f ObserverFunc) OnUpdate(snapshot models.Snapshot) {
	f(snapshot)
}

// SubscriptionID identifies one registered observer.
type SubscriptionID int64

type subscription struct {
	id       SubscriptionID
	observer Observer
}

// Subscribe registers o and returns the ID to unsubscribe it with.
// Observers are called synchronously, in registration order. Subscribing to a
// closed session returns an ID that is never notified.
func (s *Session) Subscribe(o Observer) SubscriptionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	if s.state == models.StateClosed || o == nil {
		return id
	}
	s.observers = append(s.observers, subscription{id: id, observer: o})
	slog.Debug("Session observer subscribed", "session_id", s.id, "subscription_id", id)
	return id
}

// Unsubscribe removes an observer. Unknown IDs are ignored. Snapshots already
// queued for delivery may still reach it.
func (s *Session) Unsubscribe(id SubscriptionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.observers {
		if sub.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			slog.Debug("Session observer unsubscribed", "session_id", s.id, "subscription_id", id)
			return
		}
	}
}

// flush delivers queued snapshots. Whoever holds notifyMu drains the whole
// outbox, so a flush that loses the TryLock race (including one made from
// inside an observer) leaves its snapshots to the current holder.
func (s *Session) flush() {
	for {
		if !s.notifyMu.TryLock() {
			return
		}
		s.drain()
		s.notifyMu.Unlock()

		s.mu.Lock()
		more := len(s.outbox) > 0
		s.mu.Unlock()
		if !more {
			return
		}
	}
}

func (s *Session) drain() {
	for {
		s.mu.Lock()
		batch := s.outbox
		s.outbox = nil
		observers := append([]subscription(nil), s.observers...)
		s.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, snapshot := range batch {
			for _, sub := range observers {
				sub.observer.OnUpdate(snapshot)
			}
		}
	}
}
