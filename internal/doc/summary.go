package doc

import (
	"fmt"

	"github.com/llmlens/llmlens/internal/chart"
	"github.com/llmlens/llmlens/internal/report"
)

const (
	summaryTopIssues    = 5
	summaryWinsPerGroup = 3
)

// Summary assembles the short, lead-generation oriented document. Sections
// are emitted only when their backing data is present.
func Summary(data *report.ReportData) *Document {
	d := &Document{
		Template:    TemplateSummary,
		Title:       fmt.Sprintf("AI Visibility Report: %s", data.Project.Domain),
		Subtitle:    data.Project.Name,
		Brand:       data.Brand(),
		PreparedFor: data.Config.PreparedFor,
		GeneratedAt: data.GeneratedAt,
	}

	d.Sections = append(d.Sections, summaryOverview(data))
	d.Sections = append(d.Sections, summaryScores(data))

	if sec, ok := summaryQuickWins(data); ok {
		d.Sections = append(d.Sections, sec)
	}
	if sec, ok := summaryIssues(data); ok {
		d.Sections = append(d.Sections, sec)
	}
	if data.Visibility != nil {
		d.Sections = append(d.Sections, visibilitySection(data.Visibility))
	}
	if len(data.History) > 1 {
		d.Sections = append(d.Sections, summaryTrend(data))
	}

	return d
}

func summaryOverview(data *report.ReportData) Section {
	blocks := []Block{
		Paragraph{Text: fmt.Sprintf(
			"Overall score: %s (grade %s) across %d crawled pages.",
			fmtScore(data.Scores.Overall), data.Scores.Grade, data.Crawl.PagesCrawled,
		)},
	}
	if data.ScoreDeltas.Overall != 0 {
		blocks = append(blocks, Paragraph{Text: fmt.Sprintf(
			"Change since previous crawl: %s overall.", fmtDelta(data.ScoreDeltas.Overall),
		)})
	}
	if data.Crawl.Summary != "" {
		blocks = append(blocks, Paragraph{Text: data.Crawl.Summary})
	}

	return Section{Title: "Overview", Blocks: blocks}
}

func summaryScores(data *report.ReportData) Section {
	axes := scoreAxes(data.Scores)

	table := Table{Headers: []string{"Category", "Score"}}
	for _, axis := range axes {
		table.Rows = append(table.Rows, []string{axis.Label, fmtScore(axis.Value)})
	}
	table.Rows = append(table.Rows, []string{"Overall", fmtScore(data.Scores.Overall)})

	return Section{
		Title: "Scores",
		Blocks: []Block{
			Chart{
				Title:      "Category scores",
				Primitives: chart.RadarChart(axes, chartBounds),
				Data:       table,
			},
		},
	}
}

func summaryQuickWins(data *report.ReportData) (Section, bool) {
	if len(data.QuickWins) == 0 {
		return Section{}, false
	}

	var blocks []Block
	for _, pillar := range report.PillarOrder {
		var items []string
		total := 0
		for _, win := range data.QuickWins {
			if win.Issue.Pillar != pillar {
				continue
			}
			total++
			if len(items) < summaryWinsPerGroup {
				items = append(items, quickWinLine(win))
			}
		}
		if total == 0 {
			continue
		}

		blocks = append(blocks, Heading{Level: 3, Text: pillarTitle(pillar)}, List{Items: items})
		if total > len(items) {
			blocks = append(blocks, Paragraph{Text: moreNote(total, len(items))})
		}
	}

	return Section{Title: "Quick Wins", Blocks: blocks}, true
}

func quickWinLine(win report.QuickWin) string {
	line := fmt.Sprintf("%s - %s", win.Issue.Message, win.Issue.Recommendation)
	if win.ROI.TrafficEstimate != "" {
		line += fmt.Sprintf(" [%s]", win.ROI.TrafficEstimate)
	}
	return line
}

func summaryIssues(data *report.ReportData) (Section, bool) {
	if data.Issues.Total == 0 {
		return Section{}, false
	}

	var points []chart.DataPoint
	counts := Table{Headers: []string{"Severity", "Count"}}
	for _, group := range data.Issues.BySeverity {
		points = append(points, chart.DataPoint{Label: group.Key, Value: float64(group.Count)})
		counts.Rows = append(counts.Rows, []string{group.Key, fmt.Sprintf("%d", group.Count)})
	}

	blocks := []Block{
		Chart{
			Title:      fmt.Sprintf("%d issues by severity", data.Issues.Total),
			Primitives: chart.BarChart(points, chartBounds, chart.ColorAccent),
			Data:       counts,
		},
	}

	top := Table{Headers: []string{"Issue", "Severity", "Pages"}}
	shown := min(len(data.Issues.Items), summaryTopIssues)
	for _, issue := range data.Issues.Items[:shown] {
		top.Rows = append(top.Rows, []string{
			issue.Message,
			string(issue.Severity),
			fmt.Sprintf("%d", issue.AffectedPages),
		})
	}
	blocks = append(blocks, Heading{Level: 3, Text: "Top issues"}, top)
	if data.Issues.Total > shown {
		blocks = append(blocks, Paragraph{Text: moreNote(data.Issues.Total, shown)})
	}

	return Section{Title: "Issues", Blocks: blocks}, true
}

func summaryTrend(data *report.ReportData) Section {
	series := chart.Series{Name: "Overall", Color: chart.ColorAccent}
	table := Table{Headers: []string{"Crawl", "Overall"}}
	for _, point := range data.History {
		day := point.CompletedAt.Format("Jan 2")
		series.Points = append(series.Points, chart.DataPoint{Label: day, Value: point.Scores.Overall})
		table.Rows = append(table.Rows, []string{day, fmtScore(point.Scores.Overall)})
	}

	return Section{
		Title: "Trend",
		Blocks: []Block{
			Chart{
				Title:      "Overall score over time",
				Primitives: chart.LineChart([]chart.Series{series}, chartBounds),
				Data:       table,
			},
		},
	}
}

// chartBounds is the shared layout rectangle charts are computed into, in
// document points.
var chartBounds = chart.Bounds{X: 0, Y: 0, W: 170, H: 90}

func scoreAxes(scores report.Scores) []chart.AxisValue {
	axes := []chart.AxisValue{
		{Label: "Technical", Value: scores.Technical},
		{Label: "Content", Value: scores.Content},
		{Label: "AI Readiness", Value: scores.AIReadiness},
	}
	if scores.Performance != nil {
		axes = append(axes, chart.AxisValue{Label: "Performance", Value: *scores.Performance})
	}
	return axes
}

func visibilitySection(v *report.Visibility) Section {
	table := Table{Headers: []string{"Platform", "Mention rate", "Citation rate", "Avg position"}}
	for _, p := range v.Platforms {
		table.Rows = append(table.Rows, []string{
			p.Platform,
			fmtPercent(p.MentionRate),
			fmtPercent(p.CitationRate),
			fmt.Sprintf("%.1f", p.AvgPosition),
		})
	}
	return Section{Title: "AI Platform Visibility", Blocks: []Block{table}}
}
