// Package digest_worker expands one weekly digest tick into a render job
// per active project.
package digest_worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/llmlens/llmlens/internal/background"
	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/render"
	"github.com/llmlens/llmlens/internal/storage"
)

type Worker struct {
	river.WorkerDefaults[background.WeeklyDigestArgs]

	store *storage.Store
}

func New(store *storage.Store) *Worker {
	return &Worker{store: store}
}

func (w *Worker) Work(ctx context.Context, job *river.Job[background.WeeklyDigestArgs]) error {
	projects, err := w.store.ActiveProjects(ctx)
	if err != nil {
		return fmt.Errorf("listing active projects: %w", err)
	}

	params := renderParams(projects)
	if len(params) == 0 {
		return nil
	}

	client := river.ClientFromContext[pgx.Tx](ctx)
	if _, err := client.InsertMany(ctx, params); err != nil {
		return fmt.Errorf("enqueuing digest renders: %w", err)
	}

	slog.InfoContext(ctx, "dispatched weekly digests", "count", len(params))
	return nil
}

// renderParams builds one summary PDF render per project from its newest
// completed crawl.
func renderParams(projects []storage.ActiveProject) []river.InsertManyParams {
	params := make([]river.InsertManyParams, 0, len(projects))
	for _, p := range projects {
		params = append(params, river.InsertManyParams{
			Args: background.ReportJobArgs{
				ReportID:  uuid.New(),
				ProjectID: p.ProjectID,
				CrawlID:   p.LatestCrawlID,
				UserID:    p.OwnerID,
				Type:      doc.TemplateSummary,
				Format:    render.FormatPDF,
			},
		})
	}

	return params
}
