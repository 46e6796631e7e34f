// ABOUTME: Export and import of plan history.
// ABOUTME: Supports JSON and YAML documents plus the raw persisted array.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nutriwise/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	ExportVersion = "1.0"
	ExportTool    = "nutriwise"
)

// ErrInvalidImport is returned when an import document cannot be used.
var ErrInvalidImport = errors.New("invalid import")

// ExportData is the full export format for plan history.
type ExportData struct {
	Version    string                `json:"version" yaml:"version"`
	ExportedAt time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool       string                `json:"tool" yaml:"tool"`
	Entries    []models.HistoryEntry `json:"entries" yaml:"entries"`
}

// NewExport wraps entries in an export envelope.
func NewExport(entries []models.HistoryEntry, now time.Time) *ExportData {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: now,
		Tool:       ExportTool,
		Entries:    entries,
	}
}

// ExportJSON renders entries as indented JSON.
func ExportJSON(entries []models.HistoryEntry, now time.Time) ([]byte, error) {
	return json.MarshalIndent(NewExport(entries, now), "", "  ")
}

// ExportYAML renders entries as YAML.
func ExportYAML(entries []models.HistoryEntry, now time.Time) ([]byte, error) {
	return yaml.Marshal(NewExport(entries, now))
}

// ParseImport reads an export document in JSON or YAML. A bare JSON array is
// treated as a persisted history value.
func ParseImport(data []byte) ([]models.HistoryEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidImport)
	}

	var entries []models.HistoryEntry
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
	case '{':
		var doc ExportData
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		entries = doc.Entries
	default:
		var doc ExportData
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		entries = doc.Entries
	}

	for i := range entries {
		entries[i].Profile = entries[i].Profile.Normalized()
		e := entries[i]
		if e.Timestamp <= 0 {
			return nil, fmt.Errorf("%w: entry %d has no timestamp", ErrInvalidImport, i)
		}
		if err := e.Profile.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidImport, i, err)
		}
		if err := e.Plan.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidImport, i, err)
		}
	}
	return entries, nil
}
