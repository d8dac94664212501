// Package report_worker runs the background job that turns one render
// request into a stored document: load collaborator data, aggregate,
// assemble the template, render, persist.
package report_worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riverqueue/river"

	"github.com/llmlens/llmlens/internal/background"
	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/enrich"
	"github.com/llmlens/llmlens/internal/render"
	"github.com/llmlens/llmlens/internal/render/docx"
	"github.com/llmlens/llmlens/internal/render/pdf"
	"github.com/llmlens/llmlens/internal/render/text"
	"github.com/llmlens/llmlens/internal/report"
	"github.com/llmlens/llmlens/internal/storage"
)

type ReportWorker struct {
	river.WorkerDefaults[background.ReportJobArgs]

	store     *storage.Store
	validate  *validator.Validate
	renderers map[render.Format]render.Renderer
}

func New(store *storage.Store) *ReportWorker {
	registerMetrics()

	renderers := map[render.Format]render.Renderer{}
	for _, r := range []render.Renderer{pdf.New(), docx.New(), text.New()} {
		renderers[r.Format()] = r
	}

	return &ReportWorker{
		store:     store,
		validate:  validator.New(),
		renderers: renderers,
	}
}

func (w *ReportWorker) Timeout(job *river.Job[background.ReportJobArgs]) time.Duration {
	return 2 * time.Minute
}

func (w *ReportWorker) Work(ctx context.Context, job *river.Job[background.ReportJobArgs]) error {
	args := job.Args
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("validating report job args: %w", err)
	}

	start := time.Now()
	payload, err := w.run(ctx, args)
	renderDurationSeconds.WithLabelValues(string(args.Format)).Observe(time.Since(start).Seconds())
	if err != nil {
		rendersTotal.WithLabelValues(string(args.Format), "error").Inc()
		return err
	}

	rendersTotal.WithLabelValues(string(args.Format), "success").Inc()
	payloadBytes.WithLabelValues(string(args.Format)).Observe(float64(len(payload)))
	return nil
}

func (w *ReportWorker) run(ctx context.Context, args background.ReportJobArgs) ([]byte, error) {
	renderer, ok := w.renderers[args.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported report format %q", args.Format)
	}

	data, err := w.load(ctx, args)
	if err != nil {
		return nil, err
	}

	document, err := doc.Build(data, args.Type)
	if err != nil {
		return nil, fmt.Errorf("assembling %s template: %w", args.Type, err)
	}

	payload, err := renderer.Render(document)
	if err != nil {
		return nil, &render.Error{ReportID: args.ReportID, Format: args.Format, Err: err}
	}

	if err := w.store.SaveReport(ctx, args.ReportID, args.ProjectID, args.CrawlID,
		args.UserID, string(args.Type), string(args.Format), args.Format.ContentType(),
		payload, data.GeneratedAt); err != nil {
		return nil, err
	}

	return payload, nil
}

// load gathers every collaborator input. Project, crawl, pages, and issues
// are required; the remaining sources are best-effort and a failure there
// only degrades the report.
func (w *ReportWorker) load(ctx context.Context, args background.ReportJobArgs) (*report.ReportData, error) {
	project, err := w.store.Project(ctx, args.ProjectID)
	if err != nil {
		return nil, err
	}

	crawl, scores, err := w.store.Crawl(ctx, args.CrawlID)
	if err != nil {
		return nil, err
	}

	pages, err := w.store.Pages(ctx, args.CrawlID)
	if err != nil {
		return nil, err
	}

	issues, err := w.store.Issues(ctx, args.CrawlID)
	if err != nil {
		return nil, err
	}

	in := report.RawInputs{
		Project: project,
		Crawl:   crawl,
		Scores:  scores,
		Issues:  issues,
		Pages:   pages,
		Config:  args.Config,
	}

	if in.History, err = w.store.History(ctx, args.ProjectID); err != nil {
		slog.WarnContext(ctx, "skipping score history", "project_id", args.ProjectID, "error", err)
		in.History = nil
	}
	if in.Visibility, err = w.store.Visibility(ctx, args.CrawlID); err != nil {
		slog.WarnContext(ctx, "skipping visibility", "crawl_id", args.CrawlID, "error", err)
		in.Visibility = nil
	}
	if in.Competitors, err = w.store.CompetitorMentions(ctx, args.CrawlID); err != nil {
		slog.WarnContext(ctx, "skipping competitor mentions", "crawl_id", args.CrawlID, "error", err)
		in.Competitors = nil
	}
	if in.Envelopes, err = w.store.Envelopes(ctx, args.CrawlID); err != nil {
		slog.WarnContext(ctx, "skipping integration data", "crawl_id", args.CrawlID, "error", err)
		in.Envelopes = enrich.Envelopes{}
	}
	if in.ContentHealth, err = w.store.ContentHealth(ctx, args.CrawlID); err != nil {
		slog.WarnContext(ctx, "skipping content health", "crawl_id", args.CrawlID, "error", err)
		in.ContentHealth = nil
	}
	if in.Coverage, err = w.store.Coverage(ctx, args.CrawlID); err != nil {
		slog.WarnContext(ctx, "skipping readiness coverage", "crawl_id", args.CrawlID, "error", err)
		in.Coverage = nil
	}

	data, err := report.Aggregate(in)
	if err != nil {
		return nil, fmt.Errorf("aggregating report data: %w", err)
	}

	return data, nil
}
