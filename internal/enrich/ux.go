package enrich

import "slices"

type UXSummary struct {
	Score         float64  `json:"score"`
	RageClickURLs []string `json:"rage_click_urls,omitzero"`
}

type uxRecord struct {
	Score         *float64 `json:"score"`
	RageClickURL  string   `json:"rage_click_url"`
	RageClickURLs []string `json:"rage_click_urls"`
}

// MergeUX averages the UX score across envelopes that report one and
// collects rage-click URLs from either the list field or the single-URL
// field into a deduplicated, sorted set.
func MergeUX(envs []Envelope) UXSummary {
	var (
		scoreSum   float64
		scoreCount int
	)
	urls := make(map[string]struct{})

	for _, env := range envs {
		for _, rec := range decodeRecords[uxRecord](env.Data) {
			if rec.Score != nil {
				scoreSum += *rec.Score
				scoreCount++
			}
			if rec.RageClickURL != "" {
				urls[rec.RageClickURL] = struct{}{}
			}
			for _, url := range rec.RageClickURLs {
				if url != "" {
					urls[url] = struct{}{}
				}
			}
		}
	}

	var summary UXSummary
	if scoreCount > 0 {
		summary.Score = scoreSum / float64(scoreCount)
	}
	for url := range urls {
		summary.RageClickURLs = append(summary.RageClickURLs, url)
	}
	slices.Sort(summary.RageClickURLs)

	return summary
}
