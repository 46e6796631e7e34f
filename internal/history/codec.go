// ABOUTME: JSON serialization of the history entry sequence.
// ABOUTME: Decode performs structural shape checks and reports ErrCorruptHistory.
package history

import (
	"encoding/json"
	"fmt"

	"github.com/harperreed/nutriwise/internal/models"
)

// rawEntry mirrors models.HistoryEntry with pointers so missing fields are detectable.
type rawEntry struct {
	ID        string          `json:"id"`
	Timestamp *int64          `json:"timestamp"`
	Profile   *models.Profile `json:"profile"`
	Plan      *models.Plan    `json:"plan"`
}

// Encode serializes entries to the persisted JSON form.
func Encode(entries []models.HistoryEntry) (string, error) {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return string(data), nil
}

// Decode parses the persisted JSON form back into entries.
func Decode(s string) ([]models.HistoryEntry, error) {
	var raws []*rawEntry
	if err := json.Unmarshal([]byte(s), &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}
	if raws == nil {
		return nil, fmt.Errorf("%w: not a sequence", ErrCorruptHistory)
	}

	entries := make([]models.HistoryEntry, 0, len(raws))
	for i, r := range raws {
		switch {
		case r == nil:
			return nil, fmt.Errorf("%w: entry %d is null", ErrCorruptHistory, i)
		case r.Timestamp == nil:
			return nil, fmt.Errorf("%w: entry %d has no timestamp", ErrCorruptHistory, i)
		case r.Profile == nil:
			return nil, fmt.Errorf("%w: entry %d has no profile", ErrCorruptHistory, i)
		case r.Plan == nil:
			return nil, fmt.Errorf("%w: entry %d has no plan", ErrCorruptHistory, i)
		}
		entries = append(entries, models.HistoryEntry{
			ID:        r.ID,
			Timestamp: *r.Timestamp,
			Profile:   r.Profile.Normalized(),
			Plan:      *r.Plan,
		})
	}
	return entries, nil
}
