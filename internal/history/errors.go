// ABOUTME: Error conditions raised by the history store.
// ABOUTME: Corruption is recovered locally; persistence failures are returned non-fatally.
package history

import "errors"

var (
	// ErrCorruptHistory indicates the persisted string is not a valid entry sequence.
	ErrCorruptHistory = errors.New("corrupt history")

	// ErrPersistenceWrite indicates the store could not durably save a mutation.
	// In-memory state has still been updated.
	ErrPersistenceWrite = errors.New("history write failed")

	// ErrPersistenceRead indicates the backend could not be read during Load.
	ErrPersistenceRead = errors.New("history read failed")

	// ErrNotFound indicates no entry matches an ID prefix.
	ErrNotFound = errors.New("entry not found")

	// ErrAmbiguousID indicates an ID prefix matches more than one entry.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
)
