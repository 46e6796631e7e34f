// ABOUTME: Bounded, persisted history of generated plans.
// ABOUTME: Keeps the newest 10 entries in insertion order and mirrors them to a kv.Store.
package history

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/nutriwise/internal/kv"
	"github.com/harperreed/nutriwise/internal/models"
)

const (
	// Capacity is the maximum number of entries retained.
	Capacity = 10

	// DefaultKey is the kv key holding the serialized sequence.
	DefaultKey = "nutriwise_history"
)

// Store owns the in-memory entry sequence and its persisted copy.
type Store struct {
	kv     kv.Store
	key    string
	now    func() time.Time
	newID  func() string
	logger *log.Logger

	mu      sync.RWMutex
	entries []models.HistoryEntry
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how entry IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKey overrides the kv key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New creates an empty Store over the given persistence backend.
// Call Load to restore previously persisted entries.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		key:    DefaultKey,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the kv key this store persists under.
func (s *Store) Key() string {
	return s.key
}

// Load replaces in-memory state with the persisted sequence.
// A corrupt value is logged and treated as an empty history without writing back.
// A backend read failure leaves the history empty and is returned wrapped in ErrPersistenceRead.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil

	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceRead, err)
	}
	if !ok {
		return nil
	}

	entries, err := Decode(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable history", "key", s.key, "err", err)
		return nil
	}
	if len(entries) > Capacity {
		entries = entries[len(entries)-Capacity:]
	}
	s.entries = entries
	return nil
}

// Append records a new entry stamped with the current time, evicts the oldest
// entries beyond Capacity, and persists the retained sequence in one write.
// The returned entry is valid even when the error wraps ErrPersistenceWrite.
func (s *Store) Append(profile models.Profile, plan models.Plan) (models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.HistoryEntry{
		ID:        s.newID(),
		Timestamp: s.now().UnixMilli(),
		Profile:   profile,
		Plan:      plan,
	}

	next := make([]models.HistoryEntry, 0, len(s.entries)+1)
	next = append(next, s.entries...)
	next = append(next, entry)
	if len(next) > Capacity {
		next = next[len(next)-Capacity:]
	}
	s.entries = next

	return entry, s.persist()
}

// Clear empties the history and removes the persisted key. Clearing an empty
// store is a no-op with the same observable result.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.kv.Remove(s.key); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	return nil
}

// Restore replaces the history with entries ordered by timestamp,
// keeping only the newest Capacity, and persists the result.
func (s *Store) Restore(entries []models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.HistoryEntry, len(entries))
	copy(next, entries)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Timestamp < next[j].Timestamp
	})
	for i := range next {
		if next[i].ID == "" {
			next[i].ID = s.newID()
		}
	}
	if len(next) > Capacity {
		next = next[len(next)-Capacity:]
	}
	s.entries = next

	return s.persist()
}

// Current returns a snapshot of the entries, oldest first.
func (s *Store) Current() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Latest returns the newest entry, if any.
func (s *Store) Latest() (models.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return models.HistoryEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Find returns the entry whose ID starts with idPrefix.
func (s *Store) Find(idPrefix string) (models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idPrefix == "" {
		return models.HistoryEntry{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var matches []models.HistoryEntry
	for _, e := range s.entries {
		if strings.HasPrefix(e.ID, idPrefix) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return models.HistoryEntry{}, fmt.Errorf("%w: %s", ErrNotFound, idPrefix)
	case 1:
		return matches[0], nil
	default:
		return models.HistoryEntry{}, fmt.Errorf("%w: %s matches %d entries", ErrAmbiguousID, idPrefix, len(matches))
	}
}

// persist writes the full sequence under the key; callers hold s.mu.
func (s *Store) persist() error {
	data, err := Encode(s.entries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	if err := s.kv.Set(s.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}
	return nil
}

// IsPersistenceError reports whether err is a non-fatal persistence failure.
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistenceWrite) || errors.Is(err, ErrPersistenceRead)
}
