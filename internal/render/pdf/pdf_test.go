package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llmlens/llmlens/internal/doc"
	"github.com/llmlens/llmlens/internal/report"
)

func renderUncompressed(t *testing.T, d *doc.Document) []byte {
	t.Helper()
	out, err := NewWithOptions(Options{Compress: false}).Render(d)
	require.NoError(t, err)
	return out
}

func TestNonASCIITextTranscodesToCP1252(t *testing.T) {
	d := &doc.Document{
		Title:       "AI Visibility Report: acme.dev",
		Subtitle:    "Summary",
		Brand:       report.DefaultBranding,
		GeneratedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Sections: []doc.Section{{
			Title: "Score Breakdown",
			Blocks: []doc.Block{
				doc.Table{
					Headers: []string{"Category", "Score", "Change"},
					Rows:    [][]string{{"Overall", "73", "±0.0"}},
				},
				doc.Paragraph{Text: "Prepared by Muñoz"},
			},
		}},
	}

	out := renderUncompressed(t, d)

	// Core Helvetica is cp1252: the sign must come out as the single byte
	// 0xB1, not the two UTF-8 bytes that display as a doubled glyph.
	require.Contains(t, string(out), "\xb10.0")
	require.NotContains(t, string(out), "\xc2\xb1")
	require.Contains(t, string(out), "Mu\xf1oz")
	require.NotContains(t, string(out), "Mu\xc3\xb1oz")
}
