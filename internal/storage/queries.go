package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/llmlens/llmlens/internal/enrich"
	"github.com/llmlens/llmlens/internal/report"
)

// Store wraps the connection pool with typed accessors for everything the
// report pipeline reads and writes.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Project(ctx context.Context, projectID uuid.UUID) (report.Project, error) {
	var (
		project  report.Project
		branding []byte
	)

	err := s.db.QueryRow(ctx, `
		SELECT name, domain, branding
		FROM projects
		WHERE id = $1`, projectID).Scan(&project.Name, &project.Domain, &branding)
	if err != nil {
		return report.Project{}, fmt.Errorf("loading project %s: %w", projectID, err)
	}

	if len(branding) > 0 {
		var b report.Branding
		if err := json.Unmarshal(branding, &b); err != nil {
			return report.Project{}, fmt.Errorf("decoding branding for project %s: %w", projectID, err)
		}
		project.Branding = &b
	}

	return project, nil
}

// Crawl loads one crawl's metadata and its category scores.
func (s *Store) Crawl(ctx context.Context, crawlID uuid.UUID) (report.Crawl, report.CategoryScores, error) {
	var (
		crawl       report.Crawl
		scores      report.CategoryScores
		completedAt *time.Time
	)

	err := s.db.QueryRow(ctx, `
		SELECT id, completed_at, pages_found, pages_crawled, pages_scored, summary,
		       technical_score, content_score, ai_readiness_score, performance_score
		FROM crawls
		WHERE id = $1`, crawlID).Scan(
		&crawl.ID, &completedAt, &crawl.PagesFound, &crawl.PagesCrawled,
		&crawl.PagesScored, &crawl.Summary,
		&scores.Technical, &scores.Content, &scores.AIReadiness, &scores.Performance)
	if err != nil {
		return report.Crawl{}, report.CategoryScores{}, fmt.Errorf("loading crawl %s: %w", crawlID, err)
	}

	if completedAt != nil {
		crawl.CompletedAt = *completedAt
	}

	return crawl, scores, nil
}

func (s *Store) Pages(ctx context.Context, crawlID uuid.UUID) ([]report.RawPage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT url, technical_score, content_score, ai_readiness_score,
		       performance_score, issue_count
		FROM page_scores
		WHERE crawl_id = $1`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("loading pages for crawl %s: %w", crawlID, err)
	}
	defer rows.Close()

	var pages []report.RawPage
	for rows.Next() {
		var p report.RawPage
		if err := rows.Scan(&p.URL, &p.Scores.Technical, &p.Scores.Content,
			&p.Scores.AIReadiness, &p.Scores.Performance, &p.IssueCount); err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

func (s *Store) Issues(ctx context.Context, crawlID uuid.UUID) ([]report.Issue, error) {
	rows, err := s.db.Query(ctx, `
		SELECT code, category, severity, message, recommendation,
		       affected_pages, score_impact, pillar, owner, effort
		FROM issues
		WHERE crawl_id = $1`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("loading issues for crawl %s: %w", crawlID, err)
	}
	defer rows.Close()

	var issues []report.Issue
	for rows.Next() {
		var i report.Issue
		if err := rows.Scan(&i.Code, &i.Category, &i.Severity, &i.Message,
			&i.Recommendation, &i.AffectedPages, &i.ScoreImpact, &i.Pillar,
			&i.Owner, &i.Effort); err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		issues = append(issues, i)
	}

	return issues, rows.Err()
}

// History returns every crawl of the project, completed or not. Ordering is
// left to the aggregator.
func (s *Store) History(ctx context.Context, projectID uuid.UUID) ([]report.RawCrawl, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, completed_at, status, technical_score, content_score,
		       ai_readiness_score, performance_score
		FROM crawls
		WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading history for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var history []report.RawCrawl
	for rows.Next() {
		var (
			c           report.RawCrawl
			completedAt *time.Time
			status      string
		)
		if err := rows.Scan(&c.CrawlID, &completedAt, &status, &c.Scores.Technical,
			&c.Scores.Content, &c.Scores.AIReadiness, &c.Scores.Performance); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if completedAt != nil {
			c.CompletedAt = *completedAt
		}
		c.Completed = status == "completed"
		history = append(history, c)
	}

	return history, rows.Err()
}

func (s *Store) Visibility(ctx context.Context, crawlID uuid.UUID) ([]report.PlatformVisibility, error) {
	rows, err := s.db.Query(ctx, `
		SELECT platform, mention_rate, citation_rate, avg_position
		FROM visibility_checks
		WHERE crawl_id = $1
		ORDER BY platform`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("loading visibility for crawl %s: %w", crawlID, err)
	}
	defer rows.Close()

	var platforms []report.PlatformVisibility
	for rows.Next() {
		var p report.PlatformVisibility
		if err := rows.Scan(&p.Platform, &p.MentionRate, &p.CitationRate, &p.AvgPosition); err != nil {
			return nil, fmt.Errorf("scanning visibility row: %w", err)
		}
		platforms = append(platforms, p)
	}

	return platforms, rows.Err()
}

func (s *Store) CompetitorMentions(ctx context.Context, crawlID uuid.UUID) ([]enrich.CompetitorMention, error) {
	rows, err := s.db.Query(ctx, `
		SELECT domain, platform, query
		FROM competitor_mentions
		WHERE crawl_id = $1`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("loading competitor mentions for crawl %s: %w", crawlID, err)
	}
	defer rows.Close()

	var mentions []enrich.CompetitorMention
	for rows.Next() {
		var m enrich.CompetitorMention
		if err := rows.Scan(&m.Domain, &m.Platform, &m.Query); err != nil {
			return nil, fmt.Errorf("scanning competitor mention row: %w", err)
		}
		mentions = append(mentions, m)
	}

	return mentions, rows.Err()
}

// Envelopes returns every integration payload recorded for the crawl,
// bucketed by source. Payloads stay opaque here; the enrich package decodes
// them.
func (s *Store) Envelopes(ctx context.Context, crawlID uuid.UUID) (enrich.Envelopes, error) {
	rows, err := s.db.Query(ctx, `
		SELECT source, provider, data
		FROM enrichment_envelopes
		WHERE crawl_id = $1
		ORDER BY id`, crawlID)
	if err != nil {
		return enrich.Envelopes{}, fmt.Errorf("loading envelopes for crawl %s: %w", crawlID, err)
	}
	defer rows.Close()

	var envs enrich.Envelopes
	for rows.Next() {
		var (
			source string
			env    enrich.Envelope
		)
		if err := rows.Scan(&source, &env.Provider, &env.Data); err != nil {
			return enrich.Envelopes{}, fmt.Errorf("scanning envelope row: %w", err)
		}

		switch source {
		case "search_console":
			envs.SearchConsole = append(envs.SearchConsole, env)
		case "analytics":
			envs.Analytics = append(envs.Analytics, env)
		case "ux":
			envs.UX = append(envs.UX, env)
		}
	}

	return envs, rows.Err()
}

func (s *Store) ContentHealth(ctx context.Context, crawlID uuid.UUID) (*report.ContentHealth, error) {
	var h report.ContentHealth
	err := s.db.QueryRow(ctx, `
		SELECT avg_word_count, clarity, authority, comprehensiveness,
		       structure, citation_worthiness, pages_above_threshold
		FROM content_health
		WHERE crawl_id = $1`, crawlID).Scan(
		&h.AvgWordCount, &h.Clarity, &h.Authority, &h.Comprehensiveness,
		&h.Structure, &h.CitationWorthiness, &h.PagesAboveThreshold)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading content health for crawl %s: %w", crawlID, err)
	}

	return &h, nil
}

func (s *Store) Coverage(ctx context.Context, crawlID uuid.UUID) ([]report.RawCoverage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT code, description, compliant_pages
		FROM readiness_coverage
		WHERE crawl_id = $1`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("loading coverage for crawl %s: %w", crawlID, err)
	}
	defer rows.Close()

	var coverage []report.RawCoverage
	for rows.Next() {
		var c report.RawCoverage
		if err := rows.Scan(&c.Code, &c.Description, &c.CompliantPages); err != nil {
			return nil, fmt.Errorf("scanning coverage row: %w", err)
		}
		coverage = append(coverage, c)
	}

	return coverage, rows.Err()
}

// SaveReport persists a rendered document. Re-running the same report ID
// overwrites the prior payload.
func (s *Store) SaveReport(
	ctx context.Context,
	reportID, projectID, crawlID, requestedBy uuid.UUID,
	template, format, contentType string,
	payload []byte,
	generatedAt time.Time,
) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO reports (id, project_id, crawl_id, requested_by, template,
		                     format, content_type, payload, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			template = EXCLUDED.template,
			format = EXCLUDED.format,
			content_type = EXCLUDED.content_type,
			payload = EXCLUDED.payload,
			generated_at = EXCLUDED.generated_at`,
		reportID, projectID, crawlID, requestedBy,
		template, format, contentType, payload, generatedAt)
	if err != nil {
		return fmt.Errorf("saving report %s: %w", reportID, err)
	}

	return nil
}

// ActiveProject is one digest-eligible project and its newest completed
// crawl.
type ActiveProject struct {
	ProjectID     uuid.UUID
	LatestCrawlID uuid.UUID
	OwnerID       uuid.UUID
}

// ActiveProjects lists active projects that have at least one completed
// crawl to report on.
func (s *Store) ActiveProjects(ctx context.Context) ([]ActiveProject, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT ON (p.id) p.id, c.id, p.owner_id
		FROM projects p
		JOIN crawls c ON c.project_id = p.id
		WHERE p.active AND c.status = 'completed'
		ORDER BY p.id, c.completed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("loading active projects: %w", err)
	}
	defer rows.Close()

	var projects []ActiveProject
	for rows.Next() {
		var p ActiveProject
		if err := rows.Scan(&p.ProjectID, &p.LatestCrawlID, &p.OwnerID); err != nil {
			return nil, fmt.Errorf("scanning active project row: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}
