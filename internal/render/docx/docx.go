// Package docx renders an assembled document as a flowable Word document.
// Pagination concepts do not apply; the same data-presence rules as the
// paginated backend hold because both walk the identical document.
package docx

import (
	"bytes"
	"fmt"
	"strings"

	godocx "github.com/fumiama/go-docx"

	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/render"
)

const (
	titleSize   = "40" // half-points
	sectionSize = "28"
	headingSize = "24"
	tableWidth  = 9000 // twips
)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Format() render.Format {
	return render.FormatDOCX
}

func (r *Renderer) Render(d *doc.Document) ([]byte, error) {
	w := godocx.New().WithDefaultTheme()
	accent := strings.TrimPrefix(d.Brand.PrimaryColor, "#")

	w.AddParagraph().AddText(d.Title).Size(titleSize).Color(accent).Bold()
	w.AddParagraph().AddText(d.Subtitle).Size(sectionSize)
	if d.PreparedFor != "" {
		w.AddParagraph().AddText("Prepared for " + d.PreparedFor)
	}
	w.AddParagraph().AddText(d.Brand.CompanyName + " - " + d.GeneratedAt.Format("January 2, 2006"))

	for _, section := range d.Sections {
		w.AddParagraph() // spacing
		w.AddParagraph().AddText(section.Title).Size(sectionSize).Color(accent).Bold()

		for _, block := range section.Blocks {
			if err := r.block(w, block); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing docx: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) block(w *godocx.Docx, block doc.Block) error {
	switch b := block.(type) {
	case doc.Heading:
		w.AddParagraph().AddText(b.Text).Size(headingSize).Bold()

	case doc.Paragraph:
		w.AddParagraph().AddText(b.Text)

	case doc.List:
		for _, item := range b.Items {
			w.AddParagraph().AddText("- " + item)
		}

	case doc.Table:
		r.table(w, b)

	case doc.Chart:
		// Flow-text backend: charts degrade to their tabular view so the
		// numbers stay identical across renderers.
		w.AddParagraph().AddText(b.Title).Size(headingSize).Bold()
		if len(b.Data.Rows) == 0 {
			w.AddParagraph().AddText("No data available.")
			return nil
		}
		r.table(w, b.Data)

	case doc.Divider:
		w.AddParagraph()

	default:
		return fmt.Errorf("unsupported block type %T", block)
	}

	return nil
}

func (r *Renderer) table(w *godocx.Docx, t doc.Table) {
	if len(t.Headers) == 0 {
		return
	}

	tbl := w.AddTable(len(t.Rows)+1, len(t.Headers), tableWidth, nil)

	for col, header := range t.Headers {
		tbl.TableRows[0].TableCells[col].AddParagraph().AddText(header).Bold()
	}
	for i, row := range t.Rows {
		for col := range t.Headers {
			cell := ""
			if col < len(row) {
				cell = row[col]
			}
			tbl.TableRows[i+1].TableCells[col].AddParagraph().AddText(cell)
		}
	}
}
