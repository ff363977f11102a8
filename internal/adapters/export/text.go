package export

import (
	"bufio"
	"fmt"
	"io"
)

// TextRenderer writes report pages as plain text, pages separated by a form
// feed.
type TextRenderer struct{}

// Render writes pages to w.
func (TextRenderer) Render(w io.Writer, pages [][]string) error {
	bw := bufio.NewWriter(w)
	for p, page := range pages {
		if p > 0 {
			bw.WriteString("\f")
		}
		for _, line := range page {
			bw.WriteString(line)
			bw.WriteString("\n")
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: text: %w", ErrRender, err)
	}
	return nil
}
