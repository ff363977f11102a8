package service

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/tracker/internal/domain/model"
)

// Performance profiles used to spread generated records across the chart.
const (
	profileAverage = iota
	profileHigh
	profileLow
	profileWide
	profileCount
)

// metricRange is an inclusive [min, max] for one generated cell.
type metricRange struct{ min, max int64 }

// Ranges per profile, in model.Headers order after Name.
var profileRanges = [profileCount][model.FieldCount - 1]metricRange{
	profileAverage: {{3, 6}, {6, 8}, {2, 5}, {70, 90}, {4, 7}, {1, 4}, {55, 75}},
	profileHigh:    {{6, 10}, {7, 9}, {0, 3}, {90, 100}, {1, 4}, {3, 7}, {75, 100}},
	profileLow:     {{0, 3}, {4, 6}, {5, 10}, {40, 70}, {7, 10}, {0, 2}, {30, 55}},
	profileWide:    {{0, 10}, {4, 10}, {0, 10}, {40, 100}, {1, 10}, {0, 7}, {30, 100}},
}

// randomInt returns a uniform value in [0, n).
func randomInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// GenerateRecords returns n sample records with unique names and metric
// cells drawn from a random performance profile.
func GenerateRecords(n int) []model.StudentRecord {
	out := make([]model.StudentRecord, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, generateRecord(uuid.New()))
	}
	return out
}

func generateRecord(id uuid.UUID) model.StudentRecord {
	ranges := profileRanges[randomInt(profileCount)]
	cells := make([]string, model.FieldCount)
	cells[0] = "Student-" + id.String()[:8]
	for i, r := range ranges {
		cells[i+1] = strconv.FormatInt(r.min+randomInt(r.max-r.min+1), 10)
	}
	return model.RecordFromCells(cells)
}
