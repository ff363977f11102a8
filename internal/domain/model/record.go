// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldCount is the number of named cells in a student record.
const FieldCount = 8

// Headers names the record cells in column order.
var Headers = [FieldCount]string{
	"Name", "Study", "Sleep", "Screen", "Attendance", "Stress", "Exercise", "Previous Score",
}

// StudentRecord is one row of per-student metrics. Every cell is free text;
// numeric cells are parsed only when scoring.
type StudentRecord struct {
	Name          string
	Study         string
	Sleep         string
	Screen        string
	Attendance    string
	Stress        string
	Exercise      string
	PreviousScore string

	// Extra holds cells past the eighth found in a loaded document. They are
	// written back untouched.
	Extra []string

	// width is the cell count seen when decoding, 0 for records built in code.
	width int
}

// RecordFromCells builds a record from positional cells. Missing cells are
// empty; surplus cells land in Extra.
func RecordFromCells(cells []string) StudentRecord {
	var padded [FieldCount]string
	copy(padded[:], cells)
	rec := StudentRecord{
		Name:          padded[0],
		Study:         padded[1],
		Sleep:         padded[2],
		Screen:        padded[3],
		Attendance:    padded[4],
		Stress:        padded[5],
		Exercise:      padded[6],
		PreviousScore: padded[7],
	}
	if len(cells) > FieldCount {
		rec.Extra = append([]string(nil), cells[FieldCount:]...)
	}
	return rec
}

// Metrics returns the seven scored cells in column order.
func (r StudentRecord) Metrics() [FieldCount - 1]string {
	return [FieldCount - 1]string{r.Study, r.Sleep, r.Screen, r.Attendance, r.Stress, r.Exercise, r.PreviousScore}
}

// Cells returns every cell in column order, including Extra. A record
// decoded from a short row keeps its original width as long as the missing
// cells are still empty.
func (r StudentRecord) Cells() []string {
	cells := make([]string, 0, FieldCount+len(r.Extra))
	cells = append(cells, r.Name, r.Study, r.Sleep, r.Screen, r.Attendance, r.Stress, r.Exercise, r.PreviousScore)
	cells = append(cells, r.Extra...)
	if r.width > 0 && r.width < FieldCount && len(r.Extra) == 0 {
		short := true
		for _, c := range cells[r.width:] {
			if c != "" {
				short = false
				break
			}
		}
		if short {
			cells = cells[:r.width]
		}
	}
	return cells
}

// Set replaces the cell at column i (0 = Name). Columns past the named ones
// address Extra.
func (r *StudentRecord) Set(i int, value string) error {
	ptrs := [FieldCount]*string{&r.Name, &r.Study, &r.Sleep, &r.Screen, &r.Attendance, &r.Stress, &r.Exercise, &r.PreviousScore}
	switch {
	case i < 0:
		return fmt.Errorf("column %d out of range", i)
	case i < FieldCount:
		*ptrs[i] = value
	case i < FieldCount+len(r.Extra):
		r.Extra[i-FieldCount] = value
	default:
		return fmt.Errorf("column %d out of range", i)
	}
	return nil
}

// IsBlank reports whether every cell is empty.
func (r StudentRecord) IsBlank() bool {
	for _, c := range r.Cells() {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (r StudentRecord) Clone() StudentRecord {
	c := r
	if r.Extra != nil {
		c.Extra = append([]string(nil), r.Extra...)
	}
	return c
}

// CloneRecords deep-copies a record list. A nil list yields an empty one.
func CloneRecords(in []StudentRecord) []StudentRecord {
	out := make([]StudentRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// MarshalJSON encodes the record as a JSON array of strings.
func (r StudentRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Cells())
}

// UnmarshalJSON accepts an array whose items are strings, numbers, booleans
// or null. Non-string scalars keep their literal text; null becomes "".
func (r *StudentRecord) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("student record: %w", err)
	}
	cells := make([]string, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		switch {
		case len(item) == 0 || bytes.Equal(item, []byte("null")):
			cells[i] = ""
		case item[0] == '"':
			if err := json.Unmarshal(item, &cells[i]); err != nil {
				return fmt.Errorf("student record cell %d: %w", i, err)
			}
		case item[0] == '[' || item[0] == '{':
			return fmt.Errorf("student record cell %d: nested value", i)
		default:
			cells[i] = string(item)
		}
	}
	*r = RecordFromCells(cells)
	r.width = len(cells)
	return nil
}
