// Package export renders reports and charts to files, and reads records
// back from spreadsheets.
package export

import (
	"fmt"
	"strings"
)

// Format is a report output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatText, FormatXLSX:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FileName returns the artifact name for username in format f. Path
// separators in the name are replaced so the artifact always lands in the
// report directory.
func FileName(username string, f Format) string {
	base := fileSafe(username)
	switch f {
	case FormatPDF:
		return base + "_students.pdf"
	case FormatXLSX:
		return base + "_chart.xlsx"
	default:
		return base + "_students.txt"
	}
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
}
