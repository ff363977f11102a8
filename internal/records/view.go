package records

import (
	"fmt"

	"github.com/okian/tracker/internal/domain/model"
)

// View is an unsaved working copy of a session's visible records. Changes
// become durable only when the rows are passed to Repository.Replace.
type View struct {
	session model.Session
	rows    []model.StudentRecord
}

// NewView wraps rows for sess.
func NewView(sess model.Session, rows []model.StudentRecord) *View {
	return &View{session: sess, rows: model.CloneRecords(rows)}
}

// Session returns the session the view was opened for.
func (v *View) Session() model.Session {
	return v.session
}

// Len returns the number of working rows.
func (v *View) Len() int {
	return len(v.rows)
}

// Append adds one blank record and returns its index.
func (v *View) Append() int {
	v.rows = append(v.rows, model.RecordFromCells(nil))
	return len(v.rows) - 1
}

// Set replaces row i.
func (v *View) Set(i int, rec model.StudentRecord) error {
	if i < 0 || i >= len(v.rows) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(v.rows))
	}
	v.rows[i] = rec.Clone()
	return nil
}

// SetCell changes one cell of row i. Columns follow model.Headers.
func (v *View) SetCell(i, col int, value string) error {
	if i < 0 || i >= len(v.rows) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(v.rows))
	}
	if err := v.rows[i].Set(col, value); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexOutOfRange, err)
	}
	return nil
}

// Records returns a copy of the working rows.
func (v *View) Records() []model.StudentRecord {
	return model.CloneRecords(v.rows)
}
