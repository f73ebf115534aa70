package tracker

import "time"

// Kind classifies a notification for presentation styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notification is a short-lived message for the presentation layer. At
// most one is visible at a time; it self-clears after the store's
// notification TTL unless a newer one has replaced it first.
type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Notification returns the currently visible notification, or nil.
func (s *Store) Notification() *Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.notif == nil {
		return nil
	}
	n := *s.notif
	return &n
}

// Notify replaces the current notification and arms its expiry timer.
func (s *Store) Notify(message string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLocked(message, kind)
}

// notifyLocked sets the notification under the lock already held by
// the caller. The sequence number is the cancellation token: a timer
// only clears the notification it was armed for, so a newer
// notification invalidates the pending expiry of the old one.
func (s *Store) notifyLocked(message string, kind Kind) {
	s.notifSeq++
	seq := s.notifSeq
	s.notif = &Notification{Message: message, Kind: kind}

	time.AfterFunc(s.notifyTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.notifSeq == seq {
			s.notif = nil
		}
	})
}
