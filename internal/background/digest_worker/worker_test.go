package digest_worker

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/llmlens/llmlens/internal/background"
	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/render"
	"github.com/llmlens/llmlens/internal/storage"
)

func TestRenderParamsOnePerProject(t *testing.T) {
	projects := []storage.ActiveProject{
		{ProjectID: uuid.New(), LatestCrawlID: uuid.New(), OwnerID: uuid.New()},
		{ProjectID: uuid.New(), LatestCrawlID: uuid.New(), OwnerID: uuid.New()},
	}

	params := renderParams(projects)
	require.Len(t, params, 2)

	seen := map[uuid.UUID]bool{}
	for i, p := range params {
		args, ok := p.Args.(background.ReportJobArgs)
		require.True(t, ok)
		require.Equal(t, projects[i].ProjectID, args.ProjectID)
		require.Equal(t, projects[i].LatestCrawlID, args.CrawlID)
		require.Equal(t, projects[i].OwnerID, args.UserID)
		require.Equal(t, doc.TemplateSummary, args.Type)
		require.Equal(t, render.FormatPDF, args.Format)
		require.False(t, seen[args.ReportID], "report IDs must be distinct")
		seen[args.ReportID] = true
	}
}

func TestRenderParamsEmpty(t *testing.T) {
	require.Empty(t, renderParams(nil))
}
