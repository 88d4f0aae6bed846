package pattern

import (
	"sync"
	"time"

	"github.com/strandworks/strand-core/internal/controller"
)

// Capacity is the maximum number of captured patterns the store holds.
const Capacity = 20

// Logger interface for pattern store logging.
// Allows the store to log without depending on a specific logging implementation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Pattern is a captured pattern held in the store.
type Pattern struct {
	// ID is the stable deduplication identity. It never changes once
	// assigned, even across renames and parameter refreshes.
	ID string `json:"id"`

	// Name is the user-visible label. It starts equal to ID and may be
	// changed with Rename.
	Name string `json:"name"`

	// Params are the protocol parameters needed to reissue the pattern.
	Params Params `json:"params"`

	// CapturedAt records when the pattern was first captured.
	CapturedAt time.Time `json:"capturedAt"`
}

// Store is a bounded, ordered, deduplicated collection of captured
// patterns. Entries keep their capture order; deletions compact the
// slice so iteration never sees holes.
type Store struct {
	mu      sync.RWMutex
	entries []*Pattern
	logger  Logger
	now     func() time.Time
}

// NewStore creates an empty pattern store.
func NewStore() *Store {
	return &Store{
		entries: make([]*Pattern, 0, Capacity),
		logger:  noopLogger{},
		now:     time.Now,
	}
}

// SetLogger attaches a logger to the store.
func (s *Store) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Capture saves the pattern currently described by a raw zone record.
//
// The record's identity is computed from its defining parameters. If an
// entry with the same identity already exists, its parameters are
// refreshed in place and its user-assigned name is preserved; otherwise
// a new entry is appended with its name initialised to the identity.
//
// Returns:
//   - The stored entry (existing or new)
//   - ErrDeviceOff if the record describes an off zone
//   - ErrStoreFull if a new entry is needed but all slots are occupied
func (s *Store) Capture(rec controller.ZoneStatus) (Pattern, error) {
	if rec.Off() {
		return Pattern{}, ErrDeviceOff
	}

	id := IdentityFor(rec)
	params := paramsFor(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			e.Params = params
			s.logger.Debug("pattern refreshed", "id", id, "name", e.Name)
			return *e, nil
		}
	}

	if len(s.entries) >= Capacity {
		s.logger.Warn("pattern store full", "capacity", Capacity, "rejected", id)
		return Pattern{}, ErrStoreFull
	}

	entry := &Pattern{
		ID:         id,
		Name:       id,
		Params:     params,
		CapturedAt: s.now(),
	}
	s.entries = append(s.entries, entry)
	s.logger.Info("pattern captured", "id", id, "slots_used", len(s.entries))
	return *entry, nil
}

// Rename changes the user-visible name of an entry. The identity is
// untouched, so the entry still dedupes against future captures of the
// same show.
//
// Returns ErrNotFound if no entry carries the current name, or
// ErrNameTaken if another entry already holds the new name.
func (s *Store) Rename(name, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLocked(name)
	if target == nil {
		return ErrNotFound
	}
	if newName == target.Name {
		return nil
	}
	if other := s.findLocked(newName); other != nil && other != target {
		return ErrNameTaken
	}

	s.logger.Info("pattern renamed", "id", target.ID, "from", target.Name, "to", newName)
	target.Name = newName
	return nil
}

// Delete removes the entry with the given name and compacts the store,
// freeing a slot for future captures.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.Name == name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.logger.Info("pattern deleted", "id", e.ID, "name", name, "slots_used", len(s.entries))
			return nil
		}
	}
	return ErrNotFound
}

// Resolve looks up an entry by its user-visible name.
func (s *Store) Resolve(name string) (Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e := s.findLocked(name); e != nil {
		return *e, true
	}
	return Pattern{}, false
}

// FindByType returns the first entry whose pattern type matches, in
// capture order. Used to map a live zone record back to a saved name.
func (s *Store) FindByType(patternType string) (Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Params.Type == patternType {
			return *e, true
		}
	}
	return Pattern{}, false
}

// List returns copies of all entries in capture order.
func (s *Store) List() []Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Pattern, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

// Names returns the user-visible names of all entries in capture order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of occupied slots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// findLocked locates an entry by name. Caller must hold the lock.
func (s *Store) findLocked(name string) *Pattern {
	for _, e := range s.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}
