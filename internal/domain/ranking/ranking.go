// Package ranking turns a visible record set into the chart projection and
// the paginated text lines of a report.
package ranking

import (
	"sort"
	"strings"

	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/internal/domain/scoring"
	"github.com/okian/tracker/internal/domain/types"
)

// DefaultHighlight is how many entries are tagged top and bottom.
const DefaultHighlight = 3

// Rank scores every record and tags the n best and n worst. The result has
// one entry per record in input order. Ties keep list order in both
// directions, so with fewer than 2n records an entry may be top and bottom.
func Rank(records []model.StudentRecord, n int) []types.Entry {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return RankScores(names, scoring.Totals(records), n)
}

// RankScores is Rank over precomputed scores. names and scores must have the
// same length.
func RankScores(names []string, scores []int64, n int) []types.Entry {
	entries := make([]types.Entry, len(scores))
	for i := range scores {
		entries[i] = types.Entry{Index: i, Name: names[i], Score: scores[i]}
	}

	desc := order(scores, func(a, b int64) bool { return a > b })
	for pos, i := range desc {
		entries[i].Rank = pos + 1
		if pos < n {
			entries[i].Top = true
		}
	}
	asc := order(scores, func(a, b int64) bool { return a < b })
	for pos, i := range asc {
		if pos >= n {
			break
		}
		entries[i].Bottom = true
	}
	return entries
}

// order returns indices stably sorted by before.
func order(scores []int64, before func(a, b int64) bool) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return before(scores[idx[a]], scores[idx[b]])
	})
	return idx
}

// Header is the first line of a user's report.
func Header(username string) string {
	return "Student Performance Data for " + username
}

// Lines renders the header followed by one comma-joined line per record.
func Lines(username string, records []model.StudentRecord) []string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, Header(username))
	for _, r := range records {
		lines = append(lines, strings.Join(r.Cells(), ", "))
	}
	return lines
}

// Paginate splits lines into pages of at most perPage lines. perPage <= 0
// puts everything on one page. An empty input yields no pages.
func Paginate(lines []string, perPage int) [][]string {
	if len(lines) == 0 {
		return nil
	}
	if perPage <= 0 {
		return [][]string{append([]string(nil), lines...)}
	}
	pages := make([][]string, 0, (len(lines)+perPage-1)/perPage)
	for start := 0; start < len(lines); start += perPage {
		end := min(start+perPage, len(lines))
		pages = append(pages, append([]string(nil), lines[start:end]...))
	}
	return pages
}

// ReportPages paginates report lines as the PDF lays them out: the gap under
// the header costs the first page one line, later pages hold perPage lines.
// perPage <= 1 falls back to Paginate.
func ReportPages(lines []string, perPage int) [][]string {
	first := perPage - 1
	if perPage <= 1 || len(lines) <= first {
		return Paginate(lines, perPage)
	}
	pages := [][]string{append([]string(nil), lines[:first]...)}
	return append(pages, Paginate(lines[first:], perPage)...)
}
