package records

import "errors"

var (
	// ErrUnknownAccount is returned when a session names an account that is
	// not in the directory.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrIndexOutOfRange is returned by View edits outside the working rows.
	ErrIndexOutOfRange = errors.New("record index out of range")
)
