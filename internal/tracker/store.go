package tracker

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/jobflow/internal/dates"
)

// StorageKey is the single slot the whole collection is persisted
// under, as a JSON array in collection order (newest first).
const StorageKey = "jobflow_applications"

// notificationTTL is how long a notification stays visible before it
// self-clears.
const notificationTTL = 3 * time.Second

// SlotStore is the durable key-value slot the collection round-trips
// through. Implemented by storage.Store.
type SlotStore interface {
	GetSlot(key string) (value string, ok bool, err error)
	SetSlot(key, value string) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store owns the canonical application collection. All mutation goes
// through Create/Update/Remove; readers get snapshot copies. The lock
// is here because the HTTP and MCP surfaces may call in concurrently.
type Store struct {
	slot      SlotStore
	clock     Clock
	notifyTTL time.Duration

	mu     sync.RWMutex
	apps   []Application
	loaded bool

	notif    *Notification
	notifSeq int
}

// NewStore creates a Store over the given slot. Call Load before the
// first mutation; until then mutations stay in memory only.
func NewStore(slot SlotStore) *Store {
	return &Store{slot: slot, clock: realClock{}, notifyTTL: notificationTTL}
}

// NewStoreWithClock creates a Store with a custom clock and
// notification lifetime (for testing).
func NewStoreWithClock(slot SlotStore, clock Clock, notifyTTL time.Duration) *Store {
	return &Store{slot: slot, clock: clock, notifyTTL: notifyTTL}
}

// Load seeds the collection from the persisted slot. A missing slot or
// an unparseable value falls back to an empty collection: an empty
// tracker is a valid starting state, so neither is surfaced as an
// error. Load is idempotent; only the first call reads the slot.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true

	raw, ok, err := s.slot.GetSlot(StorageKey)
	if err != nil {
		slog.Warn("loading applications from storage failed, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}

	var apps []Application
	if err := json.Unmarshal([]byte(raw), &apps); err != nil {
		slog.Warn("stored applications are not valid JSON, starting empty", "error", err)
		return
	}
	s.apps = apps
}

// Loaded reports whether the initial Load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Create assigns a fresh id, applies defaults, prepends the record so
// the newest application comes first, and returns the new id.
func (s *Store) Create(in CreateInput) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	app := Application{
		ID:          uuid.New().String(),
		Company:     in.Company,
		Role:        in.Role,
		Status:      in.Status,
		DateApplied: in.DateApplied,
		Notes:       in.Notes,
		CreatedAt:   now.UnixMilli(),
		UpdatedAt:   now.UnixMilli(),
	}
	if app.Status == "" {
		app.Status = StatusPending
	}
	if app.DateApplied == "" {
		app.DateApplied = dates.Today(now)
	}
	if in.NextFollowUpDate != "" {
		v := in.NextFollowUpDate
		app.NextFollowUpDate = &v
	}
	if in.InterviewDate != "" {
		v := in.InterviewDate
		app.InterviewDate = &v
	}

	s.apps = append([]Application{app}, s.apps...)
	s.persistLocked()
	s.notifyLocked("Application added successfully", KindSuccess)
	return app.ID
}

// Update merges the patch into the record with the given id and
// refreshes updatedAt. The record keeps its position in the
// collection. A missing id is a no-op (stale UI references are
// tolerated) and returns false.
func (s *Store) Update(id string, p Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	app := &s.apps[idx]

	if p.Company != nil {
		app.Company = *p.Company
	}
	if p.Role != nil {
		app.Role = *p.Role
	}
	if p.Status != nil {
		app.Status = *p.Status
	}
	if p.DateApplied != nil {
		app.DateApplied = *p.DateApplied
	}
	if p.Notes != nil {
		app.Notes = *p.Notes
	}
	app.NextFollowUpDate = mergeDate(app.NextFollowUpDate, p.NextFollowUpDate)
	app.InterviewDate = mergeDate(app.InterviewDate, p.InterviewDate)

	ts := s.clock.Now().UnixMilli()
	// The clock may not have advanced since the last mutation;
	// updatedAt must still strictly increase.
	if ts <= app.UpdatedAt {
		ts = app.UpdatedAt + 1
	}
	app.UpdatedAt = ts

	s.persistLocked()
	s.notifyLocked("Application updated", KindSuccess)
	return true
}

// mergeDate applies patch semantics to an optional date: nil leaves the
// current value, empty string clears it, anything else replaces it.
func mergeDate(current, patch *string) *string {
	if patch == nil {
		return current
	}
	if *patch == "" {
		return nil
	}
	v := *patch
	return &v
}

// Remove filters the record with the given id out of the collection.
// A missing id is a no-op and returns false.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	s.apps = append(s.apps[:idx], s.apps[idx+1:]...)
	s.persistLocked()
	s.notifyLocked("Application deleted", KindInfo)
	return true
}

// Applications returns a snapshot copy of the collection in its
// current order (newest first).
func (s *Store) Applications() []Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Application, len(s.apps))
	for i, a := range s.apps {
		out[i] = a.clone()
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.apps[idx].clone(), true
	}
	return Application{}, false
}

func (s *Store) indexLocked(id string) int {
	for i := range s.apps {
		if s.apps[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole collection to the slot. It is skipped
// until Load has run (so an early mutation can't clobber saved data
// with a near-empty array) and a write failure is logged but never
// rolls back the in-memory mutation: memory is the source of truth for
// the session, storage is best-effort durability.
func (s *Store) persistLocked() {
	if !s.loaded {
		return
	}
	apps := s.apps
	if apps == nil {
		apps = []Application{}
	}
	data, err := json.Marshal(apps)
	if err != nil {
		slog.Warn("serializing applications", "error", err)
		return
	}
	if err := s.slot.SetSlot(StorageKey, string(data)); err != nil {
		slog.Warn("persisting applications", "error", err)
	}
}
