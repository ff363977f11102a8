// Package types contains the chart projection shared by ranking and export.
package types

// Tag is the highlight class of a ranked entry.
type Tag string

const (
	TagTop    Tag = "top"
	TagBottom Tag = "bottom"
	TagMiddle Tag = "middle"
)

// Colors used by the chart, keyed by tag.
var Colors = map[Tag]string{
	TagTop:    "#66ff66",
	TagBottom: "#ff6666",
	TagMiddle: "#3399ff",
}

// Entry is one bar of the ranked chart. Entries keep the order of the
// records they were computed from.
type Entry struct {
	Index  int    `json:"index"`
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Score  int64  `json:"score"`
	Top    bool   `json:"top"`
	Bottom bool   `json:"bottom"`
}

// Tag resolves the highlight for rendering. An entry can be both top and
// bottom when there are few records; top wins.
func (e Entry) Tag() Tag {
	switch {
	case e.Top:
		return TagTop
	case e.Bottom:
		return TagBottom
	default:
		return TagMiddle
	}
}

// Color returns the chart color for the entry.
func (e Entry) Color() string {
	return Colors[e.Tag()]
}
