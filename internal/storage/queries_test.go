package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:17"

func setupStore(t *testing.T) (*pgxpool.Pool, *Store) {
	t.Helper()
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, postgresImage, postgres.BasicWaitStrategies())
	require.NoError(t, err)
	t.Cleanup(func() { _ = postgresContainer.Stop(ctx, nil) })

	db, err := New(ctx, postgresContainer.MustConnectionString(ctx, "sslmode=disable"))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db, NewStore(db)
}

func seedProject(t *testing.T, db *pgxpool.Pool, projectID uuid.UUID, active bool) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO projects (id, owner_id, name, domain, active)
		VALUES ($1, $2, 'Acme', 'acme.dev', $3)`,
		projectID, uuid.New(), active)
	require.NoError(t, err)
}

func seedCrawl(t *testing.T, db *pgxpool.Pool, crawlID, projectID uuid.UUID, status string, completedAt time.Time) {
	t.Helper()
	var completed *time.Time
	if !completedAt.IsZero() {
		completed = &completedAt
	}
	_, err := db.Exec(context.Background(), `
		INSERT INTO crawls (id, project_id, status, completed_at)
		VALUES ($1, $2, $3, $4)`,
		crawlID, projectID, status, completed)
	require.NoError(t, err)
}

func TestSaveReportOverwritesOnRerun(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()

	projectID := uuid.New()
	crawlID := uuid.New()
	seedProject(t, db, projectID, true)
	seedCrawl(t, db, crawlID, projectID, "completed", time.Now().UTC())

	reportID := uuid.New()
	userID := uuid.New()
	first := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	err := store.SaveReport(ctx, reportID, projectID, crawlID, userID,
		"summary", "pdf", "application/pdf", []byte("%PDF-first"), first)
	require.NoError(t, err)

	// Rendering the same report again replaces the stored payload.
	err = store.SaveReport(ctx, reportID, projectID, crawlID, userID,
		"detailed", "txt", "text/plain; charset=utf-8", []byte("OVERVIEW"), first.Add(time.Hour))
	require.NoError(t, err)

	var (
		count       int
		template    string
		format      string
		contentType string
		payload     []byte
		generatedAt time.Time
	)
	err = db.QueryRow(ctx, `SELECT count(*) FROM reports`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	err = db.QueryRow(ctx, `
		SELECT template, format, content_type, payload, generated_at
		FROM reports WHERE id = $1`, reportID).Scan(
		&template, &format, &contentType, &payload, &generatedAt)
	require.NoError(t, err)
	require.Equal(t, "detailed", template)
	require.Equal(t, "txt", format)
	require.Equal(t, "text/plain; charset=utf-8", contentType)
	require.Equal(t, []byte("OVERVIEW"), payload)
	require.Equal(t, first.Add(time.Hour), generatedAt.UTC())
}

func TestEnvelopesBucketBySource(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()

	projectID := uuid.New()
	crawlID := uuid.New()
	seedProject(t, db, projectID, true)
	seedCrawl(t, db, crawlID, projectID, "completed", time.Now().UTC())

	rows := []struct {
		source   string
		provider string
		data     string
	}{
		{"search_console", "google", `{"query":"alpha"}`},
		{"analytics", "plausible", `{"sessions":10}`},
		{"search_console", "bing", `{"query":"beta"}`},
		{"ux", "lighthouse", `{"score":70}`},
		{"crm", "hubspot", `{}`},
	}
	for _, r := range rows {
		_, err := db.Exec(ctx, `
			INSERT INTO enrichment_envelopes (crawl_id, source, provider, data)
			VALUES ($1, $2, $3, $4)`, crawlID, r.source, r.provider, r.data)
		require.NoError(t, err)
	}

	envs, err := store.Envelopes(ctx, crawlID)
	require.NoError(t, err)

	// Buckets keep insertion order; the unknown source is dropped.
	require.Len(t, envs.SearchConsole, 2)
	require.Equal(t, "google", envs.SearchConsole[0].Provider)
	require.Equal(t, "bing", envs.SearchConsole[1].Provider)
	require.JSONEq(t, `{"query":"alpha"}`, string(envs.SearchConsole[0].Data))
	require.Len(t, envs.Analytics, 1)
	require.Equal(t, "plausible", envs.Analytics[0].Provider)
	require.Len(t, envs.UX, 1)
	require.Equal(t, "lighthouse", envs.UX[0].Provider)

	// A crawl with no envelopes yields empty buckets, not an error.
	empty, err := store.Envelopes(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, empty.SearchConsole)
	require.Empty(t, empty.Analytics)
	require.Empty(t, empty.UX)
}

func TestActiveProjectsPicksNewestCompletedCrawl(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC()

	activeID := uuid.New()
	seedProject(t, db, activeID, true)
	oldCrawl := uuid.New()
	newCrawl := uuid.New()
	seedCrawl(t, db, oldCrawl, activeID, "completed", now.Add(-48*time.Hour))
	seedCrawl(t, db, newCrawl, activeID, "completed", now.Add(-time.Hour))
	seedCrawl(t, db, uuid.New(), activeID, "running", time.Time{})

	inactiveID := uuid.New()
	seedProject(t, db, inactiveID, false)
	seedCrawl(t, db, uuid.New(), inactiveID, "completed", now)

	pendingID := uuid.New()
	seedProject(t, db, pendingID, true)
	seedCrawl(t, db, uuid.New(), pendingID, "failed", time.Time{})

	projects, err := store.ActiveProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, activeID, projects[0].ProjectID)
	require.Equal(t, newCrawl, projects[0].LatestCrawlID)
}
