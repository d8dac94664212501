package background

import (
	"fmt"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

// WeeklyDigests returns the periodic job that kicks off digest dispatch
// every Monday at 9 AM. The job carries no project list; the dispatch
// worker resolves active projects at run time.
func WeeklyDigests() ([]*river.PeriodicJob, error) {
	schedule, err := cron.ParseStandard("0 9 * * 1")
	if err != nil {
		return nil, fmt.Errorf("parsing cron schedule: %w", err)
	}

	constructor := func() (river.JobArgs, *river.InsertOpts) {
		return WeeklyDigestArgs{}, nil
	}

	return []*river.PeriodicJob{
		river.NewPeriodicJob(schedule, constructor, &river.PeriodicJobOpts{
			RunOnStart: false,
		}),
	}, nil
}
