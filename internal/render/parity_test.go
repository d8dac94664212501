package render_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/enrich"
	"github.com/llmlens/llmlens/internal/render"
	"github.com/llmlens/llmlens/internal/render/docx"
	"github.com/llmlens/llmlens/internal/render/pdf"
	"github.com/llmlens/llmlens/internal/render/text"
	"github.com/llmlens/llmlens/internal/report"
)

// parityData keeps every string short, ASCII, and free of characters the
// PDF text operator escapes, so raw byte inspection stays reliable.
func parityData() *report.ReportData {
	completed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	issues := []report.Issue{
		{Code: "broken-links", Category: "crawlability", Severity: report.SeverityCritical, Message: "Broken internal links", Recommendation: "Fix dead links", AffectedPages: 60, ScoreImpact: 8, Pillar: report.PillarTechnical, Effort: report.EffortLow},
		{Code: "missing-meta", Category: "metadata", Severity: report.SeverityWarning, Message: "Missing meta tags", Recommendation: "Add meta tags", AffectedPages: 30, ScoreImpact: 4, Pillar: report.PillarContent, Effort: report.EffortLow},
	}

	return &report.ReportData{
		Project: report.Project{Name: "Acme Docs", Domain: "acme.dev"},
		Crawl: report.Crawl{
			CompletedAt:  completed,
			PagesFound:   120,
			PagesCrawled: 100,
			PagesScored:  100,
		},
		Scores: report.NewScores(report.CategoryScores{Technical: 72, Content: 81, AIReadiness: 66}),
		Issues: report.Issues{
			Total: 2,
			Items: issues,
			BySeverity: []report.IssueGroup{
				{Key: "critical", Count: 1}, {Key: "warning", Count: 1},
			},
			ByCategory: []report.IssueGroup{
				{Key: "crawlability", Count: 1}, {Key: "metadata", Count: 1},
			},
		},
		QuickWins: []report.QuickWin{
			{Issue: issues[0], ROI: report.ROI{ScoreImpact: 8, PageReach: 60, VisibilityImpact: report.ImpactHigh, TrafficEstimate: "+96 clicks/month"}},
		},
		Pages: []report.PageScore{
			{URL: "acme.dev/legacy", Scores: report.NewScores(report.CategoryScores{Technical: 40, Content: 30, AIReadiness: 20}), IssueCount: 7},
		},
		History: []report.HistoryPoint{
			{CompletedAt: completed.AddDate(0, 0, -9), Scores: report.NewScores(report.CategoryScores{Technical: 70, Content: 80, AIReadiness: 60})},
			{CompletedAt: completed, Scores: report.NewScores(report.CategoryScores{Technical: 72, Content: 81, AIReadiness: 66})},
		},
		ScoreDeltas: report.ScoreDeltas{Technical: 2, Content: 1, AIReadiness: 6, Overall: 3},
		Visibility: &report.Visibility{Platforms: []report.PlatformVisibility{
			{Platform: "chatgpt", MentionRate: 0.3, CitationRate: 0.2, AvgPosition: 2.1},
		}},
		Integrations: &enrich.Bundle{
			SearchConsole: &enrich.SearchConsoleSummary{
				TopQueries:       []enrich.QueryStat{{Query: "acme docs", Impressions: 8000, Clicks: 400, Position: 3.1}},
				TotalImpressions: 8000,
				TotalClicks:      400,
			},
		},
		ActionPlan: []report.ActionTier{
			{Title: "Do now", Description: "Critical issues holding back visibility across the site.", Items: issues[:1]},
			{Title: "Do next", Description: "Warnings worth addressing in the next sprint.", Items: issues[1:]},
		},
		GeneratedAt: time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
	}
}

// parityTokens are content fragments every backend must carry for the same
// document.
var parityTokens = []string{
	"AI Visibility Report: acme.dev",
	"Broken internal links",
	"Fix dead links",
	"+96 clicks/month",
	"chatgpt",
}

func renderAll(t *testing.T, document *doc.Document) (pdfOut, docxXML, textOut string) {
	t.Helper()

	pdfBytes, err := pdf.NewWithOptions(pdf.Options{Compress: false}).Render(document)
	require.NoError(t, err)

	docxBytes, err := docx.New().Render(document)
	require.NoError(t, err)

	textBytes, err := text.New().Render(document)
	require.NoError(t, err)

	return string(pdfBytes), docxDocumentXML(t, docxBytes), string(textBytes)
}

// docxDocumentXML unzips the container and returns the main document part.
func docxDocumentXML(t *testing.T, b []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		xml, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(xml)
	}

	t.Fatal("word/document.xml not found in docx output")
	return ""
}

func TestRenderersCarryTheSameContent(t *testing.T) {
	document, err := doc.Build(parityData(), doc.TemplateSummary)
	require.NoError(t, err)

	pdfOut, docxXML, textOut := renderAll(t, document)

	for _, token := range parityTokens {
		require.Contains(t, pdfOut, token)
		require.Contains(t, docxXML, token)
		require.Contains(t, textOut, token)
	}
}

func TestRenderersCarryChartDataEverywhere(t *testing.T) {
	document, err := doc.Build(parityData(), doc.TemplateSummary)
	require.NoError(t, err)

	_, docxXML, textOut := renderAll(t, document)

	// Flow backends render the chart's tabular view; both must carry the
	// same category scores the PDF draws.
	for _, token := range []string{"Technical", "Content", "AI Readiness", "Overall"} {
		require.Contains(t, docxXML, token)
	}
	require.Contains(t, textOut, "72")
	require.Contains(t, textOut, "81")
	require.Contains(t, textOut, "66")
}

func TestPDFOutputShape(t *testing.T) {
	document, err := doc.Build(parityData(), doc.TemplateDetailed)
	require.NoError(t, err)

	out, err := pdf.New().Render(document)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestDOCXContainerShape(t *testing.T) {
	document, err := doc.Build(parityData(), doc.TemplateDetailed)
	require.NoError(t, err)

	out, err := docx.New().Render(document)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	require.True(t, names["word/document.xml"])
	require.True(t, names["[Content_Types].xml"])
}

func TestTextSectionLayout(t *testing.T) {
	document, err := doc.Build(parityData(), doc.TemplateSummary)
	require.NoError(t, err)

	out, err := text.New().Render(document)
	require.NoError(t, err)

	require.Contains(t, string(out), "OVERVIEW\n========")
	require.Contains(t, string(out), "QUICK WINS\n==========")
}

func TestEmptyChartFallsBackInEveryBackend(t *testing.T) {
	document := &doc.Document{
		Template:    doc.TemplateSummary,
		Title:       "Empty Chart",
		Brand:       report.DefaultBranding,
		GeneratedAt: time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
		Sections: []doc.Section{{
			Title:  "Trend",
			Blocks: []doc.Block{doc.Chart{Title: "Overall score over time"}},
		}},
	}

	pdfOut, docxXML, textOut := renderAll(t, document)
	require.Contains(t, pdfOut, "No data available.")
	require.Contains(t, docxXML, "No data available.")
	require.Contains(t, textOut, "No data available.")
}

func TestFormatHelpers(t *testing.T) {
	require.True(t, render.FormatPDF.IsValid())
	require.True(t, render.FormatDOCX.IsValid())
	require.True(t, render.FormatText.IsValid())
	require.False(t, render.Format("csv").IsValid())

	require.Equal(t, "application/pdf", render.FormatPDF.ContentType())
	require.Equal(t, "text/plain; charset=utf-8", render.FormatText.ContentType())
	require.Equal(t, "pdf", render.FormatPDF.Extension())
}

func TestRenderErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &render.Error{
		ReportID: uuid.MustParse("7b9f3a60-1f0f-4c87-a2ff-0c40d86a1001"),
		Format:   render.FormatPDF,
		Err:      cause,
	}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "pdf")
	require.Contains(t, err.Error(), "7b9f3a60")
}
