package enrich

import (
	"slices"
	"strings"
)

const topPageLimit = 20

type PageSessions struct {
	URL      string `json:"url"`
	Sessions int64  `json:"sessions"`
}

// AnalyticsSummary metrics default to zero when no envelope reported them.
// This deliberately differs from the search-console null-when-absent rule.
type AnalyticsSummary struct {
	BounceRate        float64        `json:"bounce_rate"`
	AvgEngagementSecs float64        `json:"avg_engagement_secs"`
	TopPages          []PageSessions `json:"top_pages,omitzero"`
}

// analyticsRecord accepts any subset of the shapes an analytics envelope may
// report: an aggregate bounce rate, an aggregate engagement time, a single
// page/session pair, or an array of pairs.
type analyticsRecord struct {
	BounceRate        *float64       `json:"bounce_rate"`
	EngagementSeconds *float64       `json:"engagement_seconds"`
	URL               string         `json:"url"`
	Sessions          *int64         `json:"sessions"`
	Pages             []PageSessions `json:"pages"`
}

// MergeAnalytics averages bounce rate and engagement across the envelopes
// that reported them, tracking counts per metric independently, and sums
// sessions per distinct URL. The result keeps the top 20 URLs by sessions.
func MergeAnalytics(envs []Envelope) AnalyticsSummary {
	var (
		bounceSum       float64
		bounceCount     int
		engagementSum   float64
		engagementCount int
	)
	sessionsByURL := make(map[string]int64)

	for _, env := range envs {
		for _, rec := range decodeRecords[analyticsRecord](env.Data) {
			if rec.BounceRate != nil {
				bounceSum += *rec.BounceRate
				bounceCount++
			}
			if rec.EngagementSeconds != nil {
				engagementSum += *rec.EngagementSeconds
				engagementCount++
			}
			if rec.URL != "" && rec.Sessions != nil {
				sessionsByURL[rec.URL] += *rec.Sessions
			}
			for _, page := range rec.Pages {
				if page.URL != "" {
					sessionsByURL[page.URL] += page.Sessions
				}
			}
		}
	}

	var summary AnalyticsSummary
	if bounceCount > 0 {
		summary.BounceRate = bounceSum / float64(bounceCount)
	}
	if engagementCount > 0 {
		summary.AvgEngagementSecs = engagementSum / float64(engagementCount)
	}

	for url, sessions := range sessionsByURL {
		summary.TopPages = append(summary.TopPages, PageSessions{URL: url, Sessions: sessions})
	}
	slices.SortFunc(summary.TopPages, func(a, b PageSessions) int {
		if a.Sessions != b.Sessions {
			if a.Sessions > b.Sessions {
				return -1
			}
			return 1
		}
		return strings.Compare(a.URL, b.URL)
	})
	if len(summary.TopPages) > topPageLimit {
		summary.TopPages = summary.TopPages[:topPageLimit]
	}

	return summary
}
