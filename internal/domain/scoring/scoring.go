// Package scoring derives the total score of a student record.
//
// The total is never stored; callers recompute it whenever they need it.
package scoring

import (
	"math"
	"strconv"

	"github.com/okian/tracker/internal/domain/model"
)

// ParseCell returns the value of a non-negative integer literal made only of
// ASCII digits. Signs, spaces, decimals, empty text and values that do not fit
// in an int64 are rejected.
func ParseCell(cell string) (int64, bool) {
	if cell == "" {
		return 0, false
	}
	for i := 0; i < len(cell); i++ {
		if cell[i] < '0' || cell[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Total sums the seven metric cells of rec. The name is ignored and any cell
// ParseCell rejects counts as zero. The sum saturates at math.MaxInt64.
func Total(rec model.StudentRecord) int64 {
	var sum int64
	for _, cell := range rec.Metrics() {
		v, ok := ParseCell(cell)
		if !ok {
			continue
		}
		if sum > math.MaxInt64-v {
			return math.MaxInt64
		}
		sum += v
	}
	return sum
}

// Totals computes Total for every record, keeping order.
func Totals(recs []model.StudentRecord) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = Total(r)
	}
	return out
}
