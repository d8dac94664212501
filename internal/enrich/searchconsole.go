package enrich

import (
	"math"
	"slices"
	"strings"
)

// topQueryLimit caps the merged query list.
const topQueryLimit = 20

type QueryStat struct {
	Query       string  `json:"query"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Position    float64 `json:"position"`
}

type SearchConsoleSummary struct {
	TopQueries       []QueryStat `json:"top_queries"`
	TotalImpressions int64       `json:"total_impressions"`
	TotalClicks      int64       `json:"total_clicks"`
}

type queryRecord struct {
	Query       string  `json:"query"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Position    float64 `json:"position"`
}

// MergeSearchConsole deduplicates query records across envelopes by exact
// query string: impressions and clicks sum, position averages to one
// decimal. The result is sorted by impressions descending and truncated to
// the top 20. It returns nil when no usable query record was found.
func MergeSearchConsole(envs []Envelope) *SearchConsoleSummary {
	type acc struct {
		impressions int64
		clicks      int64
		positionSum float64
		positions   int
	}

	byQuery := make(map[string]*acc)
	for _, env := range envs {
		for _, rec := range decodeRecords[queryRecord](env.Data) {
			if rec.Query == "" {
				continue
			}

			a := byQuery[rec.Query]
			if a == nil {
				a = &acc{}
				byQuery[rec.Query] = a
			}
			a.impressions += rec.Impressions
			a.clicks += rec.Clicks
			a.positionSum += rec.Position
			a.positions++
		}
	}

	if len(byQuery) == 0 {
		return nil
	}

	summary := &SearchConsoleSummary{
		TopQueries: make([]QueryStat, 0, len(byQuery)),
	}
	for query, a := range byQuery {
		position := math.Round(a.positionSum/float64(a.positions)*10) / 10
		summary.TopQueries = append(summary.TopQueries, QueryStat{
			Query:       query,
			Impressions: a.impressions,
			Clicks:      a.clicks,
			Position:    position,
		})
		summary.TotalImpressions += a.impressions
		summary.TotalClicks += a.clicks
	}

	slices.SortFunc(summary.TopQueries, func(a, b QueryStat) int {
		if a.Impressions != b.Impressions {
			if a.Impressions > b.Impressions {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Query, b.Query)
	})

	if len(summary.TopQueries) > topQueryLimit {
		summary.TopQueries = summary.TopQueries[:topQueryLimit]
	}

	return summary
}
