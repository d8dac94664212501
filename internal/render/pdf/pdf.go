// Package pdf renders an assembled document as a paginated vector PDF. The
// renderer holds no local state between calls and writes only to the
// returned buffer, so it runs equally in long-lived processes and
// short-lived sandboxed functions.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/llmlens/llmlens/internal/chart"
	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/render"
)

const (
	pageMargin  = 20.0
	bodySize    = 10.0
	tableSize   = 9.0
	lineHeight  = 5.5
	chartHeight = 95.0
)

// Options tune output encoding, not content.
type Options struct {
	// Compress toggles stream compression. Parity tests disable it to
	// inspect text operators directly.
	Compress bool

	// CreationDate is stamped into the PDF metadata; the document's
	// GeneratedAt is used when zero. Injectable for reproducible output.
	CreationDate time.Time
}

type Renderer struct {
	opts Options
}

func New() *Renderer {
	return &Renderer{opts: Options{Compress: true}}
}

func NewWithOptions(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

func (r *Renderer) Format() render.Format {
	return render.FormatPDF
}

func (r *Renderer) Render(d *doc.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.opts.Compress)

	created := r.opts.CreationDate
	if created.IsZero() {
		created = d.GeneratedAt
	}
	pdf.SetCreationDate(created)
	pdf.SetTitle(d.Title, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	// The core Helvetica fonts are cp1252; document text arrives as UTF-8
	// and must be transcoded or non-ASCII glyphs come out doubled.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r.cover(pdf, d, tr)

	for _, section := range d.Sections {
		if d.SectionBreaks {
			pdf.AddPage()
		} else {
			pdf.Ln(6)
		}
		r.section(pdf, d, section, tr)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("building pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) cover(pdf *fpdf.Fpdf, d *doc.Document, tr func(string) string) {
	pdf.AddPage()

	accent := hexColor(d.Brand.PrimaryColor)
	pdf.SetTextColor(int(accent.R), int(accent.G), int(accent.B))
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 9, tr(d.Title), "", "L", false)

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(d.Subtitle), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", bodySize)
	if d.PreparedFor != "" {
		pdf.CellFormat(0, lineHeight, tr("Prepared for "+d.PreparedFor), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, lineHeight, tr(d.Brand.CompanyName)+" - "+d.GeneratedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (r *Renderer) section(pdf *fpdf.Fpdf, d *doc.Document, section doc.Section, tr func(string) string) {
	accent := hexColor(d.Brand.PrimaryColor)
	pdf.SetTextColor(int(accent.R), int(accent.G), int(accent.B))
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(section.Title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(40, 40, 40)
	pdf.Ln(1)

	for _, block := range section.Blocks {
		r.block(pdf, block, tr)
	}
}

func (r *Renderer) block(pdf *fpdf.Fpdf, block doc.Block, tr func(string) string) {
	switch b := block.(type) {
	case doc.Heading:
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6.5, tr(b.Text), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", bodySize)

	case doc.Paragraph:
		pdf.SetFont("Helvetica", "", bodySize)
		pdf.MultiCell(0, lineHeight, tr(b.Text), "", "L", false)
		pdf.Ln(1)

	case doc.List:
		pdf.SetFont("Helvetica", "", bodySize)
		for _, item := range b.Items {
			pdf.MultiCell(0, lineHeight, tr("- "+item), "", "L", false)
		}
		pdf.Ln(1)

	case doc.Table:
		r.table(pdf, b, tr)

	case doc.Chart:
		// Paginated vector backend: draw the laid-out primitives and skip
		// the tabular fallback.
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6.5, tr(b.Title), "", 1, "L", false, 0, "")
		r.primitives(pdf, b.Primitives, tr)

	case doc.Divider:
		y := pdf.GetY() + 2
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pageMargin, y, 210-pageMargin, y)
		pdf.Ln(5)
	}
}

func (r *Renderer) table(pdf *fpdf.Fpdf, t doc.Table, tr func(string) string) {
	if len(t.Headers) == 0 {
		return
	}
	usable := 210 - 2*pageMargin
	colW := usable / float64(len(t.Headers))

	pdf.SetFont("Helvetica", "B", tableSize)
	pdf.SetFillColor(240, 240, 245)
	for _, h := range t.Headers {
		pdf.CellFormat(colW, 6, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", tableSize)
	for _, row := range t.Rows {
		for i := 0; i < len(t.Headers); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colW, 6, clip(pdf, tr(cell), colW-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

// primitives draws chart geometry at the current cursor, translating from
// chart space into page space.
func (r *Renderer) primitives(pdf *fpdf.Fpdf, prims []chart.Primitive, tr func(string) string) {
	if len(prims) == 0 {
		pdf.SetFont("Helvetica", "I", tableSize)
		pdf.CellFormat(0, lineHeight, "No data available.", "", 1, "L", false, 0, "")
		return
	}

	offX, offY := pageMargin, pdf.GetY()+2

	for _, prim := range prims {
		switch p := prim.(type) {
		case chart.Line:
			pdf.SetDrawColor(int(p.Stroke.R), int(p.Stroke.G), int(p.Stroke.B))
			pdf.SetLineWidth(p.Width)
			pdf.Line(offX+p.From.X, offY+p.From.Y, offX+p.To.X, offY+p.To.Y)

		case chart.Polyline:
			pdf.SetDrawColor(int(p.Stroke.R), int(p.Stroke.G), int(p.Stroke.B))
			pdf.SetLineWidth(p.Width)
			for i := 1; i < len(p.Points); i++ {
				pdf.Line(
					offX+p.Points[i-1].X, offY+p.Points[i-1].Y,
					offX+p.Points[i].X, offY+p.Points[i].Y,
				)
			}

		case chart.Polygon:
			pts := make([]fpdf.PointType, len(p.Points))
			for i, pt := range p.Points {
				pts[i] = fpdf.PointType{X: offX + pt.X, Y: offY + pt.Y}
			}
			pdf.SetDrawColor(int(p.Stroke.R), int(p.Stroke.G), int(p.Stroke.B))
			pdf.SetLineWidth(0.3)
			if p.Filled {
				pdf.SetFillColor(int(p.Fill.R), int(p.Fill.G), int(p.Fill.B))
				pdf.SetAlpha(0.35, "Normal")
				pdf.Polygon(pts, "FD")
				pdf.SetAlpha(1, "Normal")
			} else {
				pdf.Polygon(pts, "D")
			}

		case chart.Circle:
			pdf.SetFillColor(int(p.Fill.R), int(p.Fill.G), int(p.Fill.B))
			pdf.Circle(offX+p.Center.X, offY+p.Center.Y, p.Radius, "F")

		case chart.Label:
			text := tr(p.Text)
			pdf.SetFont("Helvetica", "", p.Size)
			pdf.SetTextColor(int(p.Color.R), int(p.Color.G), int(p.Color.B))
			x := offX + p.At.X
			switch p.Anchor {
			case chart.AnchorMiddle:
				x -= pdf.GetStringWidth(text) / 2
			case chart.AnchorEnd:
				x -= pdf.GetStringWidth(text)
			}
			pdf.Text(x, offY+p.At.Y, text)
		}
	}

	pdf.SetTextColor(40, 40, 40)
	pdf.SetY(offY + chartHeight + 4)
}

// clip shortens a cell value to fit its column.
func clip(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 3 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

type rgb struct {
	R, G, B uint8
}

// hexColor parses "#RRGGBB"; anything unparsable falls back to a neutral
// dark gray rather than failing the render.
func hexColor(s string) rgb {
	if len(s) == 7 && s[0] == '#' {
		r, errR := strconv.ParseUint(s[1:3], 16, 8)
		g, errG := strconv.ParseUint(s[3:5], 16, 8)
		b, errB := strconv.ParseUint(s[5:7], 16, 8)
		if errR == nil && errG == nil && errB == nil {
			return rgb{R: uint8(r), G: uint8(g), B: uint8(b)}
		}
	}
	return rgb{R: 0x37, G: 0x3B, B: 0x42}
}
