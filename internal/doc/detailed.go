package doc

import (
	"fmt"
	"strings"

	"github.com/llmlens/llmlens/internal/chart"
	"github.com/llmlens/llmlens/internal/report"
)

const (
	detailedIssueCap   = 20
	detailedPageCap    = 10
	detailedTierCap    = 10
	competitorQueryCap = 3
)

// Detailed assembles the exhaustive document. It walks the same ReportData
// as Summary but is an independent assembly, not a superset-by-trimming.
func Detailed(data *report.ReportData) *Document {
	d := &Document{
		Template:      TemplateDetailed,
		Title:         fmt.Sprintf("AI Visibility Audit: %s", data.Project.Domain),
		Subtitle:      data.Project.Name,
		Brand:         data.Brand(),
		PreparedFor:   data.Config.PreparedFor,
		GeneratedAt:   data.GeneratedAt,
		SectionBreaks: true,
	}

	d.Sections = append(d.Sections, detailedExecutive(data))
	if len(data.History) > 1 {
		d.Sections = append(d.Sections, detailedTrend(data))
	}
	if sec, ok := detailedIssues(data); ok {
		d.Sections = append(d.Sections, sec)
	}
	if sec, ok := detailedQuickWins(data); ok {
		d.Sections = append(d.Sections, sec)
	}
	if sec, ok := detailedPages(data); ok {
		d.Sections = append(d.Sections, sec)
	}
	if sec, ok := detailedActionPlan(data); ok {
		d.Sections = append(d.Sections, sec)
	}
	if data.Visibility != nil {
		d.Sections = append(d.Sections, visibilitySection(data.Visibility))
	}
	if sec, ok := detailedCompetitors(data); ok {
		d.Sections = append(d.Sections, sec)
	}
	if data.ContentHealth != nil {
		d.Sections = append(d.Sections, detailedContentHealth(data.ContentHealth))
	}
	if data.Integrations != nil {
		d.Sections = append(d.Sections, detailedIntegrations(data))
	}
	if len(data.ReadinessCoverage) > 0 {
		d.Sections = append(d.Sections, detailedCoverage(data.ReadinessCoverage))
	}

	return d
}

func detailedExecutive(data *report.ReportData) Section {
	crawlTable := Table{
		Headers: []string{"Pages found", "Pages crawled", "Pages scored", "Completed"},
		Rows: [][]string{{
			fmt.Sprintf("%d", data.Crawl.PagesFound),
			fmt.Sprintf("%d", data.Crawl.PagesCrawled),
			fmt.Sprintf("%d", data.Crawl.PagesScored),
			data.Crawl.CompletedAt.Format("2006-01-02 15:04 MST"),
		}},
	}

	axes := scoreAxes(data.Scores)
	scoreTable := Table{Headers: []string{"Category", "Score", "Change"}}
	deltas := []float64{
		data.ScoreDeltas.Technical,
		data.ScoreDeltas.Content,
		data.ScoreDeltas.AIReadiness,
		data.ScoreDeltas.Performance,
	}
	for i, axis := range axes {
		scoreTable.Rows = append(scoreTable.Rows, []string{
			axis.Label, fmtScore(axis.Value), fmtDelta(deltas[i]),
		})
	}
	scoreTable.Rows = append(scoreTable.Rows, []string{
		"Overall", fmtScore(data.Scores.Overall), fmtDelta(data.ScoreDeltas.Overall),
	})

	blocks := []Block{
		Paragraph{Text: fmt.Sprintf(
			"%s scored %s overall, grade %s.",
			data.Project.Domain, fmtScore(data.Scores.Overall), data.Scores.Grade,
		)},
	}
	if data.Crawl.Summary != "" {
		blocks = append(blocks, Paragraph{Text: data.Crawl.Summary})
	}
	blocks = append(blocks,
		crawlTable,
		Divider{},
		Chart{
			Title:      "Category scores",
			Primitives: chart.RadarChart(axes, chartBounds),
			Data:       scoreTable,
		},
	)

	return Section{Title: "Executive Summary", Blocks: blocks}
}

func detailedTrend(data *report.ReportData) Section {
	named := []struct {
		name  string
		color chart.Color
		value func(report.Scores) float64
	}{
		{"Technical", chart.Color{R: 0x25, G: 0x63, B: 0xEB}, func(s report.Scores) float64 { return s.Technical }},
		{"Content", chart.Color{R: 0x05, G: 0x96, B: 0x69}, func(s report.Scores) float64 { return s.Content }},
		{"AI Readiness", chart.ColorAccent, func(s report.Scores) float64 { return s.AIReadiness }},
		{"Overall", chart.Color{R: 0x37, G: 0x3B, B: 0x42}, func(s report.Scores) float64 { return s.Overall }},
	}

	series := make([]chart.Series, len(named))
	table := Table{Headers: []string{"Crawl", "Technical", "Content", "AI Readiness", "Overall"}}
	for i, n := range named {
		series[i] = chart.Series{Name: n.name, Color: n.color}
	}
	for _, point := range data.History {
		day := point.CompletedAt.Format("Jan 2")
		row := []string{day}
		for i, n := range named {
			series[i].Points = append(series[i].Points, chart.DataPoint{
				Label: day,
				Value: n.value(point.Scores),
			})
			row = append(row, fmtScore(n.value(point.Scores)))
		}
		table.Rows = append(table.Rows, row)
	}

	return Section{
		Title: "Score Trend",
		Blocks: []Block{
			Chart{
				Title:      "Scores across crawls",
				Primitives: chart.LineChart(series, chartBounds),
				Data:       table,
			},
		},
	}
}

func detailedIssues(data *report.ReportData) (Section, bool) {
	if data.Issues.Total == 0 {
		return Section{}, false
	}

	var bars []chart.DataPoint
	severityTable := Table{Headers: []string{"Severity", "Count"}}
	for _, group := range data.Issues.BySeverity {
		bars = append(bars, chart.DataPoint{Label: group.Key, Value: float64(group.Count)})
		severityTable.Rows = append(severityTable.Rows, []string{group.Key, fmt.Sprintf("%d", group.Count)})
	}

	var slices []chart.Slice
	categoryTable := Table{Headers: []string{"Category", "Count"}}
	palette := []chart.Color{
		{R: 0x25, G: 0x63, B: 0xEB}, {R: 0x05, G: 0x96, B: 0x69}, {R: 0xD9, G: 0x77, B: 0x06},
		{R: 0xDC, G: 0x26, B: 0x26}, {R: 0x7C, G: 0x3A, B: 0xED}, {R: 0x64, G: 0x74, B: 0x8B},
	}
	for i, group := range data.Issues.ByCategory {
		slices = append(slices, chart.Slice{
			Label: group.Key,
			Value: float64(group.Count),
			Color: palette[i%len(palette)],
		})
		categoryTable.Rows = append(categoryTable.Rows, []string{group.Key, fmt.Sprintf("%d", group.Count)})
	}

	blocks := []Block{
		Chart{
			Title:      fmt.Sprintf("%d issues by severity", data.Issues.Total),
			Primitives: chart.BarChart(bars, chartBounds, chart.ColorAccent),
			Data:       severityTable,
		},
		Chart{
			Title:      "Issues by category",
			Primitives: chart.PieChart(slices, chartBounds),
			Data:       categoryTable,
		},
	}

	// Full catalog grouped by severity in fixed order, capped per group.
	for _, sev := range report.SeverityOrder {
		group := Table{Headers: []string{"Code", "Issue", "Recommendation", "Pages", "Impact"}}
		total := 0
		for _, issue := range data.Issues.Items {
			if issue.Severity != sev {
				continue
			}
			total++
			if len(group.Rows) < detailedIssueCap {
				group.Rows = append(group.Rows, []string{
					issue.Code,
					issue.Message,
					issue.Recommendation,
					fmt.Sprintf("%d", issue.AffectedPages),
					fmt.Sprintf("%.1f", issue.ScoreImpact),
				})
			}
		}
		if total == 0 {
			continue
		}

		blocks = append(blocks,
			Heading{Level: 3, Text: fmt.Sprintf("%s (%d)", severityTitle(sev), total)},
			group,
		)
		if total > len(group.Rows) {
			blocks = append(blocks, Paragraph{Text: moreNote(total, len(group.Rows))})
		}
	}

	return Section{Title: "Issue Catalog", Blocks: blocks}, true
}

func detailedQuickWins(data *report.ReportData) (Section, bool) {
	if len(data.QuickWins) == 0 {
		return Section{}, false
	}

	var blocks []Block
	for _, pillar := range report.PillarOrder {
		table := Table{Headers: []string{"Issue", "Recommendation", "Visibility impact", "Traffic"}}
		for _, win := range data.QuickWins {
			if win.Issue.Pillar != pillar {
				continue
			}
			traffic := win.ROI.TrafficEstimate
			if traffic == "" {
				traffic = "-"
			}
			table.Rows = append(table.Rows, []string{
				win.Issue.Message,
				win.Issue.Recommendation,
				string(win.ROI.VisibilityImpact),
				traffic,
			})
		}
		if len(table.Rows) == 0 {
			continue
		}
		blocks = append(blocks, Heading{Level: 3, Text: pillarTitle(pillar)}, table)
	}

	return Section{Title: "Quick Wins", Blocks: blocks}, true
}

func detailedPages(data *report.ReportData) (Section, bool) {
	if len(data.Pages) == 0 {
		return Section{}, false
	}

	table := Table{Headers: []string{"URL", "Overall", "Grade", "Issues"}}
	shown := min(len(data.Pages), detailedPageCap)
	for _, page := range data.Pages[:shown] {
		table.Rows = append(table.Rows, []string{
			page.URL,
			fmtScore(page.Scores.Overall),
			string(page.Scores.Grade),
			fmt.Sprintf("%d", page.IssueCount),
		})
	}

	blocks := []Block{table}
	if len(data.Pages) > shown {
		blocks = append(blocks, Paragraph{Text: moreNote(len(data.Pages), shown)})
	}

	return Section{Title: "Lowest Scoring Pages", Blocks: blocks}, true
}

func detailedActionPlan(data *report.ReportData) (Section, bool) {
	if len(data.ActionPlan) == 0 {
		return Section{}, false
	}

	var blocks []Block
	for _, tier := range data.ActionPlan {
		blocks = append(blocks,
			Heading{Level: 3, Text: tier.Title},
			Paragraph{Text: tier.Description},
		)

		var items []string
		shown := min(len(tier.Items), detailedTierCap)
		for _, issue := range tier.Items[:shown] {
			items = append(items, fmt.Sprintf("%s: %s", issue.Code, issue.Recommendation))
		}
		blocks = append(blocks, List{Items: items})
		if len(tier.Items) > shown {
			blocks = append(blocks, Paragraph{Text: moreNote(len(tier.Items), shown)})
		}
	}

	return Section{Title: "Action Plan", Blocks: blocks}, true
}

func detailedCompetitors(data *report.ReportData) (Section, bool) {
	if len(data.Competitors) == 0 {
		return Section{}, false
	}

	table := Table{Headers: []string{"Domain", "Mentions", "Platforms", "Example queries"}}
	for _, comp := range data.Competitors {
		queries := comp.Queries
		if len(queries) > competitorQueryCap {
			queries = queries[:competitorQueryCap]
		}
		table.Rows = append(table.Rows, []string{
			comp.Domain,
			fmt.Sprintf("%d", comp.Mentions),
			strings.Join(comp.Platforms, ", "),
			strings.Join(queries, "; "),
		})
	}

	return Section{Title: "Competitors in AI Answers", Blocks: []Block{table}}, true
}

func detailedContentHealth(health *report.ContentHealth) Section {
	table := Table{Headers: []string{"Metric", "Value"}}
	row := func(name string, v *float64) {
		if v != nil {
			table.Rows = append(table.Rows, []string{name, fmt.Sprintf("%.1f", *v)})
		}
	}
	row("Avg word count", health.AvgWordCount)
	row("Clarity", health.Clarity)
	row("Authority", health.Authority)
	row("Comprehensiveness", health.Comprehensiveness)
	row("Structure", health.Structure)
	row("Citation-worthiness", health.CitationWorthiness)
	table.Rows = append(table.Rows, []string{
		"Pages above quality threshold", fmt.Sprintf("%d", health.PagesAboveThreshold),
	})

	return Section{Title: "Content Health", Blocks: []Block{table}}
}

func detailedIntegrations(data *report.ReportData) Section {
	var blocks []Block

	if gsc := data.Integrations.SearchConsole; gsc != nil {
		table := Table{Headers: []string{"Query", "Impressions", "Clicks", "Position"}}
		for _, q := range gsc.TopQueries {
			table.Rows = append(table.Rows, []string{
				q.Query,
				fmt.Sprintf("%d", q.Impressions),
				fmt.Sprintf("%d", q.Clicks),
				fmt.Sprintf("%.1f", q.Position),
			})
		}
		blocks = append(blocks,
			Heading{Level: 3, Text: "Search Console"},
			Paragraph{Text: fmt.Sprintf(
				"%d impressions and %d clicks across top queries.",
				gsc.TotalImpressions, gsc.TotalClicks,
			)},
			table,
		)
	}

	analytics := data.Integrations.Analytics
	if analytics.BounceRate != 0 || analytics.AvgEngagementSecs != 0 || len(analytics.TopPages) > 0 {
		blocks = append(blocks,
			Heading{Level: 3, Text: "Analytics"},
			Paragraph{Text: fmt.Sprintf(
				"Bounce rate %s, average engagement %.0fs.",
				fmtPercent(analytics.BounceRate), analytics.AvgEngagementSecs,
			)},
		)
		if len(analytics.TopPages) > 0 {
			table := Table{Headers: []string{"Page", "Sessions"}}
			for _, page := range analytics.TopPages {
				table.Rows = append(table.Rows, []string{page.URL, fmt.Sprintf("%d", page.Sessions)})
			}
			blocks = append(blocks, table)
		}
	}

	ux := data.Integrations.UX
	if ux.Score != 0 || len(ux.RageClickURLs) > 0 {
		blocks = append(blocks,
			Heading{Level: 3, Text: "User Experience"},
			Paragraph{Text: fmt.Sprintf("UX score %.0f.", ux.Score)},
		)
		if len(ux.RageClickURLs) > 0 {
			blocks = append(blocks,
				Paragraph{Text: "Pages with rage clicks:"},
				List{Items: ux.RageClickURLs},
			)
		}
	}

	return Section{Title: "Integrations", Blocks: blocks}
}

func detailedCoverage(metrics []report.CoverageMetric) Section {
	table := Table{Headers: []string{"Control", "Description", "Compliant pages", "Coverage"}}
	for _, m := range metrics {
		table.Rows = append(table.Rows, []string{
			m.Code,
			m.Description,
			fmt.Sprintf("%d", m.CompliantPages),
			fmtPercent(m.Share),
		})
	}
	return Section{Title: "Readiness Coverage", Blocks: []Block{table}}
}
