package export

import "errors"

var (
	// ErrUnknownFormat is returned for a report format other than pdf, text
	// or xlsx.
	ErrUnknownFormat = errors.New("unknown report format")
	// ErrEmptyWorkbook is returned when an imported workbook has no sheet.
	ErrEmptyWorkbook = errors.New("workbook has no sheets")
	// ErrRender wraps failures of the underlying document libraries.
	ErrRender = errors.New("render report")
)
