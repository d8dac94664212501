package report

// overallScore is the single weighting function for the derived overall
// score: an equal-weight mean over the categories that are present.
// Performance is excluded when the crawl produced no performance signal.
func overallScore(c CategoryScores) float64 {
	sum := c.Technical + c.Content + c.AIReadiness
	n := 3.0
	if c.Performance != nil {
		sum += *c.Performance
		n++
	}
	return sum / n
}

func gradeFor(score float64) Grade {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// NewScores derives the overall score and letter grade from the category
// scores. Overall is always present, even when performance is not.
func NewScores(c CategoryScores) Scores {
	overall := overallScore(c)
	return Scores{
		CategoryScores: c,
		Overall:        overall,
		Grade:          gradeFor(overall),
	}
}
