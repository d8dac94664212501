// Package enrich merges raw third-party enrichment records into normalized
// summaries. Every merge is pure and best-effort: malformed sub-records are
// skipped, never fatal.
package enrich

import "encoding/json"

// Envelope is one raw record from an external enrichment source. Data is of
// provider-specific, variable shape: it may hold a single record or an
// array of records.
type Envelope struct {
	Provider string          `json:"provider"`
	Data     json.RawMessage `json:"data"`
}

// Envelopes groups the raw per-source envelope lists handed to Merge.
type Envelopes struct {
	SearchConsole []Envelope `json:"search_console,omitzero"`
	Analytics     []Envelope `json:"analytics,omitzero"`
	UX            []Envelope `json:"ux,omitzero"`
}

func (e Envelopes) empty() bool {
	return len(e.SearchConsole) == 0 && len(e.Analytics) == 0 && len(e.UX) == 0
}

// decodeRecords resolves the one-or-many payload shape once, at this
// boundary. A malformed payload yields no records rather than an error.
func decodeRecords[T any](data json.RawMessage) []T {
	if len(data) == 0 {
		return nil
	}

	var many []T
	if err := json.Unmarshal(data, &many); err == nil {
		return many
	}

	var one T
	if err := json.Unmarshal(data, &one); err == nil {
		return []T{one}
	}

	return nil
}

// Bundle is the normalized integrations summary attached to a report.
// SearchConsole is nil when no usable query records were found, so callers
// can distinguish "no data" from zero-volume queries. Analytics and UX
// metrics instead default to zero values.
type Bundle struct {
	SearchConsole *SearchConsoleSummary `json:"search_console,omitzero"`
	Analytics     AnalyticsSummary      `json:"analytics"`
	UX            UXSummary             `json:"ux"`
}

// Merge builds the integrations bundle. It returns nil when all three
// sources are absent, so callers can skip the whole section.
func Merge(envs Envelopes) *Bundle {
	if envs.empty() {
		return nil
	}

	return &Bundle{
		SearchConsole: MergeSearchConsole(envs.SearchConsole),
		Analytics:     MergeAnalytics(envs.Analytics),
		UX:            MergeUX(envs.UX),
	}
}
