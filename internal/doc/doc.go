// Package doc assembles report documents. The summary and detailed
// templates are independent walks over the same ReportData: they share the
// block vocabulary below but deliberately not an intermediate layout tree,
// so neither output format's constraints leak into the other.
package doc

import (
	"fmt"
	"time"

	"github.com/llmlens/llmlens/internal/chart"
	"github.com/llmlens/llmlens/internal/report"
)

// Template selects which assembly builds the document.
type Template string

const (
	TemplateSummary  Template = "summary"
	TemplateDetailed Template = "detailed"
)

// Block is one content element. Renderers switch over the concrete types.
type Block interface {
	block()
}

type Heading struct {
	Level int
	Text  string
}

type Paragraph struct {
	Text string
}

type Table struct {
	Headers []string
	Rows    [][]string
}

// Chart carries both the laid-out vector primitives (for paginated vector
// backends) and the same numbers as a table (for flow-text backends that
// cannot draw). Both views are populated from one series, so content parity
// between renderers holds by construction.
type Chart struct {
	Title      string
	Primitives []chart.Primitive
	Data       Table
}

type List struct {
	Items []string
}

type Divider struct{}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Table) block()     {}
func (Chart) block()     {}
func (List) block()      {}
func (Divider) block()   {}

type Section struct {
	Title  string
	Blocks []Block
}

// Document is the assembled description both renderers consume.
type Document struct {
	Template    Template
	Title       string
	Subtitle    string
	Brand       report.Branding
	PreparedFor string
	GeneratedAt time.Time

	// SectionBreaks hints paginated backends to start each section on a
	// fresh page. Flow backends ignore it.
	SectionBreaks bool

	Sections []Section
}

// Build assembles the document for the requested template.
func Build(data *report.ReportData, tmpl Template) (*Document, error) {
	switch tmpl {
	case TemplateSummary:
		return Summary(data), nil
	case TemplateDetailed:
		return Detailed(data), nil
	default:
		return nil, fmt.Errorf("unknown template %q", tmpl)
	}
}

func fmtScore(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func fmtDelta(v float64) string {
	if v == 0 {
		return "±0.0"
	}
	return fmt.Sprintf("%+.1f", v)
}

func fmtPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// moreNote is the deterministic truncation indicator appended after any
// capped list.
func moreNote(total, shown int) string {
	return fmt.Sprintf("...and %d more", total-shown)
}

func pillarTitle(p report.Pillar) string {
	switch p {
	case report.PillarTechnical:
		return "Technical"
	case report.PillarContent:
		return "Content"
	case report.PillarAIReadiness:
		return "AI Readiness"
	default:
		return string(p)
	}
}

func severityTitle(s report.Severity) string {
	switch s {
	case report.SeverityCritical:
		return "Critical"
	case report.SeverityWarning:
		return "Warning"
	default:
		return "Info"
	}
}
