package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
)

type noteRecord struct {
	Loc     string `json:"loc"`
	Message string `json:"message"`
}

// marshalNotes converts notes to canonical JSON TEXT for storage.
func marshalNotes(notes []diag.Note) (string, error) {
	list := make([]any, len(notes))
	for i, n := range notes {
		list[i] = map[string]any{
			"loc":     formatLoc(n.Loc),
			"message": n.Message,
		}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal notes: %w", err)
	}
	return string(data), nil
}

func unmarshalNotes(data string) ([]diag.Note, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var records []noteRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("unmarshal notes: %w", err)
	}
	notes := make([]diag.Note, len(records))
	for i, r := range records {
		notes[i] = diag.Note{Loc: ir.ParseLocation(r.Loc), Message: r.Message}
	}
	return notes, nil
}

// formatLoc stores the unknown location as the empty string so that it
// parses back to the unknown location.
func formatLoc(l ir.Location) string {
	if l.IsUnknown() {
		return ""
	}
	return l.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
