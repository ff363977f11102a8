package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points, Letter portrait.
const (
	pdfMarginLeft  = 50.0
	pdfTop         = 40.0
	pdfHeaderGap   = 30.0
	pdfLineSpacing = 20.0
	pdfFontSize    = 12.0
)

// PDFRenderer writes paginated report lines as a PDF document.
type PDFRenderer struct {
	compress bool
}

// NewPDFRenderer returns a renderer with stream compression on.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{compress: true}
}

// Render writes one PDF page per entry of pages. The first line of the first
// page is the report header and is followed by a wider gap.
func (r *PDFRenderer) Render(w io.Writer, title string, pages [][]string) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(title, true)
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(pages) == 0 {
		pdf.AddPage()
	}
	for p, page := range pages {
		pdf.AddPage()
		y := pdfTop
		for i, line := range page {
			pdf.Text(pdfMarginLeft, y, tr(line))
			if p == 0 && i == 0 {
				y += pdfHeaderGap
			} else {
				y += pdfLineSpacing
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: pdf: %w", ErrRender, err)
	}
	return nil
}
