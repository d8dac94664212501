package enrich

import (
	"slices"
	"strings"
)

// CompetitorMention is one raw per-platform, per-query co-mention event.
type CompetitorMention struct {
	Domain   string `json:"domain"`
	Platform string `json:"platform"`
	Query    string `json:"query"`
}

// Competitor is one merged row per co-mentioned domain. Queries carries the
// full distinct set; display capping is the caller's choice.
type Competitor struct {
	Domain    string   `json:"domain"`
	Mentions  int      `json:"mentions"`
	Platforms []string `json:"platforms"`
	Queries   []string `json:"queries"`
}

// MergeCompetitors collapses raw co-mention events into one row per domain
// with total mention count and the distinct platform and query sets, sorted
// by mentions descending.
func MergeCompetitors(events []CompetitorMention) []Competitor {
	type acc struct {
		mentions  int
		platforms map[string]struct{}
		queries   map[string]struct{}
	}

	byDomain := make(map[string]*acc)
	for _, ev := range events {
		if ev.Domain == "" {
			continue
		}

		a := byDomain[ev.Domain]
		if a == nil {
			a = &acc{
				platforms: make(map[string]struct{}),
				queries:   make(map[string]struct{}),
			}
			byDomain[ev.Domain] = a
		}
		a.mentions++
		if ev.Platform != "" {
			a.platforms[ev.Platform] = struct{}{}
		}
		if ev.Query != "" {
			a.queries[ev.Query] = struct{}{}
		}
	}

	competitors := make([]Competitor, 0, len(byDomain))
	for domain, a := range byDomain {
		competitors = append(competitors, Competitor{
			Domain:    domain,
			Mentions:  a.mentions,
			Platforms: sortedKeys(a.platforms),
			Queries:   sortedKeys(a.queries),
		})
	}

	slices.SortFunc(competitors, func(a, b Competitor) int {
		if a.Mentions != b.Mentions {
			return b.Mentions - a.Mentions
		}
		return strings.Compare(a.Domain, b.Domain)
	})

	return competitors
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
