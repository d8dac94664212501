// Package text renders an assembled document as plain text. It backs the
// preview format and gives tests a markup-free view of document content.
package text

import (
	"bytes"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/render"
)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Format() render.Format {
	return render.FormatText
}

func (r *Renderer) Render(d *doc.Document) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(d.Title + "\n")
	buf.WriteString(d.Subtitle + "\n")
	if d.PreparedFor != "" {
		buf.WriteString("Prepared for " + d.PreparedFor + "\n")
	}
	buf.WriteString(d.Brand.CompanyName + " - " + d.GeneratedAt.Format("January 2, 2006") + "\n")

	for _, section := range d.Sections {
		buf.WriteString("\n" + strings.ToUpper(section.Title) + "\n")
		buf.WriteString(strings.Repeat("=", len(section.Title)) + "\n")

		for _, block := range section.Blocks {
			renderBlock(&buf, block)
		}
	}

	return buf.Bytes(), nil
}

func renderBlock(buf *bytes.Buffer, block doc.Block) {
	switch b := block.(type) {
	case doc.Heading:
		buf.WriteString("\n" + b.Text + "\n")

	case doc.Paragraph:
		buf.WriteString(b.Text + "\n")

	case doc.List:
		for _, item := range b.Items {
			buf.WriteString("  - " + item + "\n")
		}

	case doc.Table:
		renderTable(buf, b)

	case doc.Chart:
		buf.WriteString("\n" + b.Title + "\n")
		if len(b.Data.Rows) == 0 {
			buf.WriteString("No data available.\n")
			return
		}
		renderTable(buf, b.Data)

	case doc.Divider:
		buf.WriteString("----\n")
	}
}

func renderTable(buf *bytes.Buffer, t doc.Table) {
	if len(t.Headers) == 0 {
		return
	}

	table := tablewriter.NewWriter(buf)
	table.SetHeader(t.Headers)
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range t.Rows {
		table.Append(row)
	}

	table.Render()
}
