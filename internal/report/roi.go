package report

import (
	"fmt"
	"math"
)

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// DefaultClicksPerImpression is the assumed click-through improvement per
// ten points of score deduction recovered. It is a fixed heuristic with no
// empirical derivation; override it on the Classifier when a better model
// exists.
const DefaultClicksPerImpression = 0.02

// ROI quantifies the remediation value of a single issue.
type ROI struct {
	ScoreImpact      float64 `json:"score_impact"`
	PageReach        int     `json:"page_reach"`
	VisibilityImpact Impact  `json:"visibility_impact"`
	TrafficEstimate  string  `json:"traffic_estimate,omitzero"`
}

// ROIInput is everything the classifier looks at. Impressions is the
// externally observed monthly impression volume for the affected surface;
// zero means unknown.
type ROIInput struct {
	Severity       Severity
	ScoreDeduction float64
	AffectedPages  int
	TotalPages     int
	Impressions    int64
}

// Classifier scores remediation impact. The zero value uses
// DefaultClicksPerImpression.
type Classifier struct {
	ClicksPerImpression float64
}

// Classify is deterministic and total over its inputs: a zero TotalPages
// degrades to a severity-only classification and a negative score deduction
// never yields a traffic estimate.
func (c Classifier) Classify(in ROIInput) ROI {
	var pageRatio float64
	if in.TotalPages > 0 {
		pageRatio = float64(in.AffectedPages) / float64(in.TotalPages)
	}

	roi := ROI{
		ScoreImpact:      in.ScoreDeduction,
		PageReach:        in.AffectedPages,
		VisibilityImpact: visibilityImpact(in.Severity, pageRatio),
	}

	if in.Impressions > 0 {
		ctr := c.ClicksPerImpression
		if ctr == 0 {
			ctr = DefaultClicksPerImpression
		}

		clicks := int64(math.Round(float64(in.Impressions) * ctr * in.ScoreDeduction / 10))
		if clicks > 0 {
			roi.TrafficEstimate = fmt.Sprintf("+%d clicks/month", clicks)
		}
	}

	return roi
}

// visibilityImpact is a pure function of severity and affected-page ratio.
func visibilityImpact(severity Severity, pageRatio float64) Impact {
	switch {
	case severity == SeverityCritical && pageRatio > 0.5:
		return ImpactHigh
	case severity == SeverityCritical || severity == SeverityWarning || pageRatio > 0.2:
		return ImpactMedium
	default:
		return ImpactLow
	}
}
