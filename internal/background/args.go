package background

import (
	"github.com/google/uuid"

	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/render"
	"github.com/llmlens/llmlens/internal/report"
)

// ReportJobArgs is the job descriptor the dispatcher enqueues for one
// report render.
type ReportJobArgs struct {
	ReportID  uuid.UUID     `json:"report_id" validate:"required"`
	ProjectID uuid.UUID     `json:"project_id" validate:"required"`
	CrawlID   uuid.UUID     `json:"crawl_id" validate:"required"`
	UserID    uuid.UUID     `json:"user_id" validate:"required"`
	Type      doc.Template  `json:"type" validate:"oneof=summary detailed"`
	Format    render.Format `json:"format" validate:"oneof=pdf docx txt"`
	Config    report.Config `json:"config"`
}

func (r ReportJobArgs) Kind() string {
	return "report_render"
}

// WeeklyDigestArgs triggers one digest dispatch run. The dispatch worker
// lists active projects when it runs, so the schedule stays valid as
// projects are created and archived.
type WeeklyDigestArgs struct{}

func (WeeklyDigestArgs) Kind() string {
	return "weekly_digest"
}
