package tracker

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSlot is an in-memory SlotStore.
type fakeSlot struct {
	mu      sync.Mutex
	data    map[string]string
	failSet bool
	sets    int
}

func newFakeSlot() *fakeSlot {
	return &fakeSlot{data: make(map[string]string)}
}

func (f *fakeSlot) GetSlot(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeSlot) SetSlot(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("quota exceeded")
	}
	f.data[key] = value
	f.sets++
	return nil
}

// failingSlot errors on read.
type failingSlot struct{}

func (failingSlot) GetSlot(string) (string, bool, error) { return "", false, errors.New("io error") }
func (failingSlot) SetSlot(string, string) error         { return nil }

// fakeClock returns a fixed time until advanced.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, time.January, 28, 12, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeSlot, *fakeClock) {
	t.Helper()
	slot := newFakeSlot()
	clock := newFakeClock()
	s := NewStoreWithClock(slot, clock, 25*time.Millisecond)
	s.Load()
	return s, slot, clock
}

func TestCreateDefaults(t *testing.T) {
	s, _, clock := newTestStore(t)

	id := s.Create(CreateInput{Company: "Google", Role: "SWE"})
	if id == "" {
		t.Fatal("Create returned empty id")
	}

	apps := s.Applications()
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
	a := apps[0]
	if a.ID != id {
		t.Errorf("id = %q, want %q", a.ID, id)
	}
	if a.Status != StatusPending {
		t.Errorf("status = %q, want pending", a.Status)
	}
	if a.DateApplied != "2026-01-28" {
		t.Errorf("dateApplied = %q, want today (2026-01-28)", a.DateApplied)
	}
	if a.NextFollowUpDate != nil || a.InterviewDate != nil {
		t.Error("optional dates should default to nil")
	}
	if a.CreatedAt != clock.Now().UnixMilli() || a.UpdatedAt != a.CreatedAt {
		t.Errorf("timestamps: createdAt=%d updatedAt=%d, want both %d", a.CreatedAt, a.UpdatedAt, clock.Now().UnixMilli())
	}
}

func TestCreatePrependsNewest(t *testing.T) {
	s, _, _ := newTestStore(t)

	first := s.Create(CreateInput{Company: "A", Role: "r"})
	second := s.Create(CreateInput{Company: "B", Role: "r"})

	apps := s.Applications()
	if len(apps) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(apps))
	}
	if apps[0].ID != second || apps[1].ID != first {
		t.Errorf("order = [%s %s], want newest first [%s %s]", apps[0].ID, apps[1].ID, second, first)
	}
}

func TestCreateUniqueIDs(t *testing.T) {
	s, _, _ := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := s.Create(CreateInput{Company: "C", Role: "r"})
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s, _, clock := newTestStore(t)

	id := s.Create(CreateInput{Company: "Acme", Role: "SRE", Notes: "original"})
	clock.Advance(time.Minute)

	status := StatusInterview
	interview := "2026-02-03"
	if !s.Update(id, Patch{Status: &status, InterviewDate: &interview}) {
		t.Fatal("Update returned false for existing id")
	}

	a, ok := s.Get(id)
	if !ok {
		t.Fatal("record disappeared after update")
	}
	if a.Status != StatusInterview {
		t.Errorf("status = %q, want interview", a.Status)
	}
	if a.InterviewDate == nil || *a.InterviewDate != interview {
		t.Errorf("interviewDate = %v, want %q", a.InterviewDate, interview)
	}
	// Unspecified fields unchanged.
	if a.Company != "Acme" || a.Role != "SRE" || a.Notes != "original" {
		t.Errorf("unspecified fields changed: %+v", a)
	}
	if a.UpdatedAt <= a.CreatedAt {
		t.Errorf("updatedAt %d not greater than createdAt %d", a.UpdatedAt, a.CreatedAt)
	}
}

func TestUpdatePreservesPosition(t *testing.T) {
	s, _, _ := newTestStore(t)

	bottom := s.Create(CreateInput{Company: "A", Role: "r"})
	s.Create(CreateInput{Company: "B", Role: "r"})

	status := StatusOffer
	s.Update(bottom, Patch{Status: &status})

	apps := s.Applications()
	if apps[1].ID != bottom {
		t.Error("update reordered the collection")
	}
}

func TestUpdatedAtStrictlyIncreases(t *testing.T) {
	s, _, _ := newTestStore(t)

	id := s.Create(CreateInput{Company: "A", Role: "r"})
	notes := "n"
	// Clock does not advance between these mutations.
	s.Update(id, Patch{Notes: &notes})
	a1, _ := s.Get(id)
	s.Update(id, Patch{Notes: &notes})
	a2, _ := s.Get(id)

	if a1.UpdatedAt <= a1.CreatedAt {
		t.Errorf("first update: updatedAt %d <= createdAt %d", a1.UpdatedAt, a1.CreatedAt)
	}
	if a2.UpdatedAt <= a1.UpdatedAt {
		t.Errorf("second update: updatedAt %d <= previous %d", a2.UpdatedAt, a1.UpdatedAt)
	}
}

func TestUpdateClearsOptionalDate(t *testing.T) {
	s, _, _ := newTestStore(t)

	id := s.Create(CreateInput{Company: "A", Role: "r", NextFollowUpDate: "2026-02-01"})

	empty := ""
	s.Update(id, Patch{NextFollowUpDate: &empty})

	a, _ := s.Get(id)
	if a.NextFollowUpDate != nil {
		t.Errorf("nextFollowUpDate = %q, want cleared", *a.NextFollowUpDate)
	}
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	s, slot, _ := newTestStore(t)

	s.Create(CreateInput{Company: "A", Role: "r"})
	before := slot.sets

	notes := "x"
	if s.Update("no-such-id", Patch{Notes: &notes}) {
		t.Error("Update on missing id returned true")
	}
	if slot.sets != before {
		t.Error("Update on missing id triggered a persistence write")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s, _, _ := newTestStore(t)

	id := s.Create(CreateInput{Company: "A", Role: "r"})
	if !s.Remove(id) {
		t.Fatal("Remove returned false for existing id")
	}
	if s.Remove(id) {
		t.Error("second Remove returned true")
	}
	notes := "x"
	if s.Update(id, Patch{Notes: &notes}) {
		t.Error("Update after Remove returned true")
	}
	if len(s.Applications()) != 0 {
		t.Error("collection not empty after remove")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s, slot, _ := newTestStore(t)

	s.Create(CreateInput{Company: "A", Role: "r1", NextFollowUpDate: "2026-02-01", Notes: "n1"})
	s.Create(CreateInput{Company: "B", Role: "r2", Status: StatusInterview, InterviewDate: "2026-02-10"})
	want := s.Applications()

	reloaded := NewStoreWithClock(slot, newFakeClock(), time.Second)
	reloaded.Load()
	got := reloaded.Applications()

	if len(got) != len(want) {
		t.Fatalf("reloaded %d applications, want %d", len(got), len(want))
	}
	for i := range want {
		w, _ := json.Marshal(want[i])
		g, _ := json.Marshal(got[i])
		if string(w) != string(g) {
			t.Errorf("record %d mismatch:\n got %s\nwant %s", i, g, w)
		}
	}
}

func TestLoadMissingSlotStartsEmpty(t *testing.T) {
	s := NewStoreWithClock(newFakeSlot(), newFakeClock(), time.Second)
	s.Load()
	if !s.Loaded() {
		t.Error("Loaded() = false after Load")
	}
	if len(s.Applications()) != 0 {
		t.Error("expected empty collection for missing slot")
	}
}

func TestLoadCorruptDataStartsEmpty(t *testing.T) {
	slot := newFakeSlot()
	slot.data[StorageKey] = "{not json"

	s := NewStoreWithClock(slot, newFakeClock(), time.Second)
	s.Load()
	if len(s.Applications()) != 0 {
		t.Error("expected empty collection for corrupt slot")
	}

	// The store must still work and persist after a corrupt load.
	s.Create(CreateInput{Company: "A", Role: "r"})
	if len(s.Applications()) != 1 {
		t.Error("store unusable after corrupt load")
	}
}

func TestLoadReadErrorStartsEmpty(t *testing.T) {
	s := NewStoreWithClock(failingSlot{}, newFakeClock(), time.Second)
	s.Load()
	if len(s.Applications()) != 0 {
		t.Error("expected empty collection when slot read fails")
	}
}

func TestNoPersistBeforeLoad(t *testing.T) {
	slot := newFakeSlot()
	s := NewStoreWithClock(slot, newFakeClock(), time.Second)

	// Mutation before Load must not clobber whatever is persisted.
	s.Create(CreateInput{Company: "A", Role: "r"})
	if slot.sets != 0 {
		t.Error("mutation before Load wrote to the slot")
	}
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	s, slot, _ := newTestStore(t)
	slot.failSet = true

	id := s.Create(CreateInput{Company: "A", Role: "r"})
	if _, ok := s.Get(id); !ok {
		t.Error("in-memory mutation rolled back on write failure")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := newTestStore(t)

	id := s.Create(CreateInput{Company: "A", Role: "r", NextFollowUpDate: "2026-02-01"})

	snap := s.Applications()
	snap[0].Company = "mutated"
	*snap[0].NextFollowUpDate = "1999-01-01"

	a, _ := s.Get(id)
	if a.Company != "A" {
		t.Error("snapshot mutation leaked into the store")
	}
	if *a.NextFollowUpDate != "2026-02-01" {
		t.Error("snapshot date mutation leaked into the store")
	}
}

func TestNotificationLifecycle(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.Create(CreateInput{Company: "A", Role: "r"})
	n := s.Notification()
	if n == nil || n.Kind != KindSuccess || n.Message != "Application added successfully" {
		t.Fatalf("notification after create = %+v", n)
	}

	time.Sleep(60 * time.Millisecond)
	if s.Notification() != nil {
		t.Error("notification did not self-clear")
	}
}

func TestNewerNotificationSupersedesOlder(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.Notify("first", KindInfo)
	time.Sleep(15 * time.Millisecond)
	s.Notify("second", KindWarning)

	// The first timer fires now; it must not clear the second.
	time.Sleep(15 * time.Millisecond)
	n := s.Notification()
	if n == nil || n.Message != "second" {
		t.Fatalf("notification = %+v, want the superseding one", n)
	}

	time.Sleep(30 * time.Millisecond)
	if s.Notification() != nil {
		t.Error("superseding notification did not eventually clear")
	}
}
