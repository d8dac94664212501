// Package report builds the canonical report document model from raw crawl,
// issue, history, and enrichment records.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/llmlens/llmlens/internal/enrich"
)

const (
	// quickWinLimit caps how many issues are promoted to quick wins.
	quickWinLimit = 9

	// warningReachThreshold is the affected-page ratio above which a
	// medium-effort warning still qualifies as a quick win.
	warningReachThreshold = 0.2
)

// RawCrawl is one prior crawl run as the history collaborator reports it.
// Upstream ordering is not a contract; Aggregate sorts by completion time.
type RawCrawl struct {
	CrawlID     uuid.UUID
	CompletedAt time.Time
	Completed   bool
	Scores      CategoryScores
}

// RawPage is one per-URL score snapshot from the crawl store.
type RawPage struct {
	URL        string
	Scores     CategoryScores
	IssueCount int
}

// RawCoverage is one readiness-control compliance count.
type RawCoverage struct {
	Code           string
	Description    string
	CompliantPages int
}

// RawInputs carries every collaborator output the aggregator consumes.
// Optional sources may be nil or empty; a missing optional source never
// fails the whole report.
type RawInputs struct {
	Project       Project
	Crawl         Crawl
	Scores        CategoryScores
	Issues        []Issue
	Pages         []RawPage
	History       []RawCrawl
	Visibility    []PlatformVisibility
	Competitors   []enrich.CompetitorMention
	Envelopes     enrich.Envelopes
	ContentHealth *ContentHealth
	Coverage      []RawCoverage
	Config        Config

	// GeneratedAt is the report timestamp; the zero value means "now".
	// Tests inject a fixed time for byte-identical output.
	GeneratedAt time.Time
}

// Aggregate compiles raw collaborator outputs into one immutable
// ReportData. It is deterministic for a fixed input, including the
// generated-at timestamp.
func Aggregate(in RawInputs) (*ReportData, error) {
	if in.Crawl.PagesCrawled < 0 || in.Crawl.PagesFound < 0 {
		return nil, fmt.Errorf("aggregate: negative page counts for crawl %s", in.Crawl.ID)
	}

	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	integrations := enrich.Merge(in.Envelopes)

	var impressions int64
	if integrations != nil && integrations.SearchConsole != nil {
		impressions = integrations.SearchConsole.TotalImpressions
	}

	issues := buildIssues(in.Issues)
	quickWins := promoteQuickWins(issues.Items, in.Crawl.PagesCrawled, impressions)

	// Quick-win promotion annotates the promoted issues in place as well,
	// so the catalog carries the same classification.
	issues.Items = annotateIssues(issues.Items, quickWins)

	var visibility *Visibility
	if len(in.Visibility) > 0 {
		platforms := slices.Clone(in.Visibility)
		slices.SortFunc(platforms, func(a, b PlatformVisibility) int {
			return strings.Compare(a.Platform, b.Platform)
		})
		visibility = &Visibility{Platforms: platforms}
	}

	history := buildHistory(in.History)

	data := &ReportData{
		Project:           in.Project,
		Crawl:             in.Crawl,
		Scores:            NewScores(in.Scores),
		Issues:            issues,
		QuickWins:         quickWins,
		Pages:             buildPages(in.Pages),
		History:           history,
		ScoreDeltas:       scoreDeltas(NewScores(in.Scores), history, in.Crawl.CompletedAt),
		Visibility:        visibility,
		Competitors:       enrich.MergeCompetitors(in.Competitors),
		ContentHealth:     in.ContentHealth,
		Integrations:      integrations,
		ReadinessCoverage: buildCoverage(in.Coverage, in.Crawl.PagesCrawled),
		ActionPlan:        buildActionPlan(issues.Items),
		Config:            in.Config,
		GeneratedAt:       generatedAt,
	}

	return data, nil
}

// buildIssues sorts the catalog into its fixed display order and computes
// the two group views. Both views always sum to Total, including the empty
// case.
func buildIssues(items []Issue) Issues {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Issue) int {
		if r := severityRank(a.Severity) - severityRank(b.Severity); r != 0 {
			return r
		}
		if a.ScoreImpact != b.ScoreImpact {
			if a.ScoreImpact > b.ScoreImpact {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Code, b.Code)
	})

	bySeverityCount := make(map[Severity]int)
	byCategoryCount := make(map[string]int)
	for _, issue := range sorted {
		bySeverityCount[issue.Severity]++
		byCategoryCount[issue.Category]++
	}

	bySeverity := make([]IssueGroup, 0, len(bySeverityCount))
	for _, sev := range SeverityOrder {
		if n := bySeverityCount[sev]; n > 0 {
			bySeverity = append(bySeverity, IssueGroup{Key: string(sev), Count: n})
		}
	}

	byCategory := make([]IssueGroup, 0, len(byCategoryCount))
	for category, n := range byCategoryCount {
		byCategory = append(byCategory, IssueGroup{Key: category, Count: n})
	}
	slices.SortFunc(byCategory, func(a, b IssueGroup) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Key, b.Key)
	})

	return Issues{
		Total:      len(sorted),
		Items:      sorted,
		BySeverity: bySeverity,
		ByCategory: byCategory,
	}
}

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// promoteQuickWins selects the issues worth prominent display and attaches
// the mandatory ROI classification. Low-effort criticals and warnings
// qualify outright; anything else must reach enough of the site.
func promoteQuickWins(items []Issue, totalPages int, impressions int64) []QuickWin {
	classifier := Classifier{}

	var wins []QuickWin
	for _, issue := range items {
		if !qualifiesAsQuickWin(issue, totalPages) {
			continue
		}

		roi := classifier.Classify(ROIInput{
			Severity:       issue.Severity,
			ScoreDeduction: issue.ScoreImpact,
			AffectedPages:  issue.AffectedPages,
			TotalPages:     totalPages,
			Impressions:    impressions,
		})
		wins = append(wins, QuickWin{Issue: issue, ROI: roi})
	}

	slices.SortFunc(wins, func(a, b QuickWin) int {
		if r := impactRank(a.ROI.VisibilityImpact) - impactRank(b.ROI.VisibilityImpact); r != 0 {
			return r
		}
		if a.Issue.ScoreImpact != b.Issue.ScoreImpact {
			if a.Issue.ScoreImpact > b.Issue.ScoreImpact {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Issue.Code, b.Issue.Code)
	})

	if len(wins) > quickWinLimit {
		wins = wins[:quickWinLimit]
	}

	return wins
}

func qualifiesAsQuickWin(issue Issue, totalPages int) bool {
	if issue.Severity == SeverityInfo {
		return false
	}
	if issue.Effort == EffortLow {
		return true
	}
	if totalPages == 0 {
		return false
	}
	return issue.Severity == SeverityWarning &&
		float64(issue.AffectedPages)/float64(totalPages) > warningReachThreshold
}

func impactRank(i Impact) int {
	switch i {
	case ImpactHigh:
		return 0
	case ImpactMedium:
		return 1
	default:
		return 2
	}
}

// annotateIssues copies quick-win ROI results back onto the matching
// catalog entries. Issues that were not promoted keep a nil ROI.
func annotateIssues(items []Issue, wins []QuickWin) []Issue {
	roiByCode := make(map[string]ROI, len(wins))
	for _, win := range wins {
		roiByCode[win.Issue.Code] = win.ROI
	}

	for i := range items {
		if roi, ok := roiByCode[items[i].Code]; ok {
			r := roi
			items[i].ROI = &r
		}
	}
	return items
}

func buildPages(pages []RawPage) []PageScore {
	scored := make([]PageScore, 0, len(pages))
	for _, page := range pages {
		scored = append(scored, PageScore{
			URL:        page.URL,
			Scores:     NewScores(page.Scores),
			IssueCount: page.IssueCount,
		})
	}

	// Worst pages first; the templates cap for display.
	slices.SortFunc(scored, func(a, b PageScore) int {
		if a.Scores.Overall != b.Scores.Overall {
			if a.Scores.Overall < b.Scores.Overall {
				return -1
			}
			return 1
		}
		return strings.Compare(a.URL, b.URL)
	})

	return scored
}

// buildHistory keeps completed runs only, oldest first.
func buildHistory(raw []RawCrawl) []HistoryPoint {
	points := make([]HistoryPoint, 0, len(raw))
	for _, crawl := range raw {
		if !crawl.Completed {
			continue
		}
		points = append(points, HistoryPoint{
			CrawlID:     crawl.CrawlID,
			CompletedAt: crawl.CompletedAt,
			Scores:      NewScores(crawl.Scores),
		})
	}

	slices.SortFunc(points, func(a, b HistoryPoint) int {
		return a.CompletedAt.Compare(b.CompletedAt)
	})

	return points
}

// scoreDeltas compares the current scores against the most recent completed
// prior crawl, selected by maximum completion timestamp rather than list
// position. With no prior crawl every delta is zero.
func scoreDeltas(current Scores, history []HistoryPoint, completedAt time.Time) ScoreDeltas {
	var prev *HistoryPoint
	for i := range history {
		point := &history[i]
		if !completedAt.IsZero() && !point.CompletedAt.Before(completedAt) {
			continue
		}
		if prev == nil || point.CompletedAt.After(prev.CompletedAt) {
			prev = point
		}
	}

	if prev == nil {
		return ScoreDeltas{}
	}

	deltas := ScoreDeltas{
		Technical:   current.Technical - prev.Scores.Technical,
		Content:     current.Content - prev.Scores.Content,
		AIReadiness: current.AIReadiness - prev.Scores.AIReadiness,
		Overall:     current.Overall - prev.Scores.Overall,
	}
	if current.Performance != nil && prev.Scores.Performance != nil {
		deltas.Performance = *current.Performance - *prev.Scores.Performance
	}

	return deltas
}

func buildCoverage(raw []RawCoverage, pagesCrawled int) []CoverageMetric {
	metrics := make([]CoverageMetric, 0, len(raw))
	for _, cov := range raw {
		var share float64
		if pagesCrawled > 0 {
			share = float64(cov.CompliantPages) / float64(pagesCrawled)
		}
		metrics = append(metrics, CoverageMetric{
			Code:           cov.Code,
			Description:    cov.Description,
			CompliantPages: cov.CompliantPages,
			Share:          share,
		})
	}

	slices.SortFunc(metrics, func(a, b CoverageMetric) int {
		return strings.Compare(a.Code, b.Code)
	})

	return metrics
}

// buildActionPlan tiers the catalog for long-form document organization.
func buildActionPlan(items []Issue) []ActionTier {
	tiers := []ActionTier{
		{Title: "Do now", Description: "Critical issues holding back visibility across the site."},
		{Title: "Do next", Description: "Warnings worth addressing in the next sprint."},
		{Title: "Plan ahead", Description: "Lower-impact cleanups to schedule over time."},
	}

	for _, issue := range items {
		tiers[severityRank(issue.Severity)].Items = append(tiers[severityRank(issue.Severity)].Items, issue)
	}

	// Items arrive pre-sorted by impact from buildIssues; drop empty tiers.
	plan := tiers[:0:0]
	for _, tier := range tiers {
		if len(tier.Items) > 0 {
			plan = append(plan, tier)
		}
	}

	return plan
}
