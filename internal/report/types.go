package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/llmlens/llmlens/internal/enrich"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// SeverityOrder is the fixed display order for severity groupings.
var SeverityOrder = []Severity{SeverityCritical, SeverityWarning, SeverityInfo}

type Pillar string

const (
	PillarTechnical   Pillar = "technical"
	PillarContent     Pillar = "content"
	PillarAIReadiness Pillar = "ai_readiness"
)

// PillarOrder is the fixed display order for quick-win groupings.
var PillarOrder = []Pillar{PillarTechnical, PillarContent, PillarAIReadiness}

type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

type Grade string

type Branding struct {
	CompanyName  string `json:"company_name"`
	LogoURL      string `json:"logo_url,omitzero"`
	PrimaryColor string `json:"primary_color"`
}

// DefaultBranding is used whenever a project carries no branding of its own.
var DefaultBranding = Branding{
	CompanyName:  "llmlens",
	PrimaryColor: "#4F46E5",
}

type Project struct {
	Name     string    `json:"name"`
	Domain   string    `json:"domain"`
	Branding *Branding `json:"branding,omitzero"`
}

type Crawl struct {
	ID           uuid.UUID `json:"id"`
	CompletedAt  time.Time `json:"completed_at"`
	PagesFound   int       `json:"pages_found"`
	PagesCrawled int       `json:"pages_crawled"`
	PagesScored  int       `json:"pages_scored"`
	Summary      string    `json:"summary,omitzero"`
}

// CategoryScores holds the four 0-100 category scores. Performance is nil
// when the crawl produced no performance signal.
type CategoryScores struct {
	Technical   float64  `json:"technical"`
	Content     float64  `json:"content"`
	AIReadiness float64  `json:"ai_readiness"`
	Performance *float64 `json:"performance,omitzero"`
}

type Scores struct {
	CategoryScores

	Overall float64 `json:"overall"`
	Grade   Grade   `json:"grade"`
}

type Issue struct {
	Code           string   `json:"code"`
	Category       string   `json:"category"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
	AffectedPages  int      `json:"affected_pages"`
	ScoreImpact    float64  `json:"score_impact"`
	Pillar         Pillar   `json:"pillar"`
	Owner          string   `json:"owner,omitzero"`
	Effort         Effort   `json:"effort"`
	ROI            *ROI     `json:"roi,omitzero"`
}

type IssueGroup struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Issues carries the full item list plus the two precomputed group views.
// Both views always sum to Total.
type Issues struct {
	Total      int          `json:"total"`
	Items      []Issue      `json:"items"`
	BySeverity []IssueGroup `json:"by_severity"`
	ByCategory []IssueGroup `json:"by_category"`
}

// QuickWin is an issue promoted for prominent display. Unlike a generic
// issue its ROI classification is mandatory.
type QuickWin struct {
	Issue Issue `json:"issue"`
	ROI   ROI   `json:"roi"`
}

type PageScore struct {
	URL        string `json:"url"`
	Scores     Scores `json:"scores"`
	IssueCount int    `json:"issue_count"`
}

type HistoryPoint struct {
	CrawlID     uuid.UUID `json:"crawl_id"`
	CompletedAt time.Time `json:"completed_at"`
	Scores      Scores    `json:"scores"`
}

type ScoreDeltas struct {
	Technical   float64 `json:"technical"`
	Content     float64 `json:"content"`
	AIReadiness float64 `json:"ai_readiness"`
	Performance float64 `json:"performance"`
	Overall     float64 `json:"overall"`
}

type PlatformVisibility struct {
	Platform     string  `json:"platform"`
	MentionRate  float64 `json:"mention_rate"`
	CitationRate float64 `json:"citation_rate"`
	AvgPosition  float64 `json:"avg_position"`
}

type Visibility struct {
	Platforms []PlatformVisibility `json:"platforms"`
}

// ContentHealth metrics may individually be nil when a signal was never
// computed for this crawl.
type ContentHealth struct {
	AvgWordCount        *float64 `json:"avg_word_count,omitzero"`
	Clarity             *float64 `json:"clarity,omitzero"`
	Authority           *float64 `json:"authority,omitzero"`
	Comprehensiveness   *float64 `json:"comprehensiveness,omitzero"`
	Structure           *float64 `json:"structure,omitzero"`
	CitationWorthiness  *float64 `json:"citation_worthiness,omitzero"`
	PagesAboveThreshold int      `json:"pages_above_threshold"`
}

// CoverageMetric is the share of crawled pages compliant with one readiness
// control.
type CoverageMetric struct {
	Code           string  `json:"code"`
	Description    string  `json:"description"`
	CompliantPages int     `json:"compliant_pages"`
	Share          float64 `json:"share"`
}

type ActionTier struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Items       []Issue `json:"items"`
}

// Config holds caller-supplied rendering options.
type Config struct {
	BrandColor  string `json:"brand_color,omitzero"`
	PreparedFor string `json:"prepared_for,omitzero"`
	Public      bool   `json:"public"`
}

// ReportData is the canonical document model. It is built once per render
// request by Aggregate, read by the template engine and renderers, and never
// mutated after construction.
type ReportData struct {
	Project           Project             `json:"project"`
	Crawl             Crawl               `json:"crawl"`
	Scores            Scores              `json:"scores"`
	Issues            Issues              `json:"issues"`
	QuickWins         []QuickWin          `json:"quick_wins"`
	Pages             []PageScore         `json:"pages"`
	History           []HistoryPoint      `json:"history"`
	ScoreDeltas       ScoreDeltas         `json:"score_deltas"`
	Visibility        *Visibility         `json:"visibility,omitzero"`
	Competitors       []enrich.Competitor `json:"competitors,omitzero"`
	ContentHealth     *ContentHealth      `json:"content_health,omitzero"`
	Integrations      *enrich.Bundle      `json:"integrations,omitzero"`
	ReadinessCoverage []CoverageMetric    `json:"readiness_coverage,omitzero"`
	ActionPlan        []ActionTier        `json:"action_plan"`
	Config            Config              `json:"config"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// Brand resolves the branding to render with, falling back to the fixed
// default when the project carries none.
func (d *ReportData) Brand() Branding {
	if d.Project.Branding != nil {
		return *d.Project.Branding
	}
	return DefaultBranding
}
