package etl

import (
	"context"
	"errors"
	"time"

	"github.com/campfin/fecload/pkg/logger"
	"github.com/campfin/fecload/pkg/models"
)

const (
	// MaxPages guards against a pagination block that never converges.
	MaxPages = 2000

	emptyPageLimit = 2
	pageDelay      = 300 * time.Millisecond
	periodCount    = 3
)

// Stop reasons, logged when a period's page loop ends.
const (
	stopLastPage  = "last page reached"
	stopEmpty     = "two consecutive empty pages"
	stopOldData   = "reached records older than cutoff"
	stopSafetyCap = "page safety cap hit"
)

// Stats counts what a run saw and wrote.
type Stats struct {
	PagesFetched int
	PagesFailed  int
	Records      int
	Skipped      int
	Loaded       int
	Duplicates   int
}

// Pipeline drives fetch, filter and load across reporting periods,
// promoting staged rows into the final table after each period completes so
// partial progress survives a later failure.
type Pipeline struct {
	Fetcher PageFetcher
	Mapper  *Mapper
	Loader  RowLoader
	Dest    Destination

	StagingTable string
	FinalTable   string

	Periods   []int
	PageDelay time.Duration

	sleep func(time.Duration)
	seen  map[string]struct{}
}

func NewPipeline(f PageFetcher, m *Mapper, l RowLoader, d Destination,
	staging, final string, periods []int) *Pipeline {
	return &Pipeline{
		Fetcher:      f,
		Mapper:       m,
		Loader:       l,
		Dest:         d,
		StagingTable: staging,
		FinalTable:   final,
		Periods:      periods,
		PageDelay:    pageDelay,
		sleep:        time.Sleep,
		seen:         make(map[string]struct{}),
	}
}

// RecentPeriods returns the most recent two-year reporting cycles, newest
// first. A cycle is identified by its ending even year; an odd current year
// belongs to the cycle ending next year.
func RecentPeriods(now time.Time) []int {
	cycle := now.Year()
	if cycle%2 != 0 {
		cycle++
	}
	periods := make([]int, 0, periodCount)
	for i := 0; i < periodCount; i++ {
		periods = append(periods, cycle-2*i)
	}
	return periods
}

// Run truncates both destination tables, processes each configured period,
// and promotes staging into final after every period. A load or warehouse
// failure aborts the run; a page-level fetch failure only skips that page.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	logger.Infof("Starting FEC data refresh. Periods: %v, cutoff: %s", p.Periods, p.Mapper.Cutoff)

	if err := p.Dest.Truncate(ctx, p.StagingTable); err != nil {
		return nil, err
	}
	if err := p.Dest.Truncate(ctx, p.FinalTable); err != nil {
		return nil, err
	}

	stats := &Stats{}
	for _, period := range p.Periods {
		if err := p.runPeriod(ctx, period, stats); err != nil {
			return stats, err
		}
		if err := p.Dest.Promote(ctx, p.StagingTable, p.FinalTable); err != nil {
			return stats, err
		}
		logger.Infof("Period %d promoted into %s", period, p.FinalTable)
	}

	logger.Infof("Refresh finished. Pages: %d (failed %d), records: %d, skipped: %d, loaded: %d, duplicate ids: %d",
		stats.PagesFetched, stats.PagesFailed, stats.Records, stats.Skipped, stats.Loaded, stats.Duplicates)
	return stats, nil
}

func (p *Pipeline) runPeriod(ctx context.Context, period int, stats *Stats) error {
	logger.Infof("=== Period %d ===", period)

	var buffer []*models.ContributionRow
	emptyPages := 0
	reason := ""

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		n, err := p.Loader.Load(ctx, buffer)
		stats.Loaded += n
		buffer = buffer[:0]
		return err
	}

	for page := 1; ; page++ {
		if page > MaxPages {
			reason = stopSafetyCap
			logger.Warnf("Period %d: page %d exceeds safety cap %d, stopping", period, page, MaxPages)
			break
		}

		data, err := p.Fetcher.FetchPage(ctx, period, page)
		if err != nil {
			// The page's retry budget is spent; skip it and keep the
			// period going.
			stats.PagesFailed++
			logger.Errorf("Period %d page %d failed, skipping: %v", period, page, err)
			continue
		}
		stats.PagesFetched++

		if len(data.Results) == 0 {
			emptyPages++
			if emptyPages >= emptyPageLimit {
				reason = stopEmpty
				break
			}
		} else {
			emptyPages = 0
		}

		tooOld := false
		for _, rec := range data.Results {
			stats.Records++
			row, err := p.Mapper.Map(rec)
			if errors.Is(err, ErrBeforeCutoff) {
				// Sorted descending: the rest of this page is older still.
				tooOld = true
				break
			}
			if err != nil {
				stats.Skipped++
				continue
			}

			if row.TranID != "" {
				if _, dup := p.seen[row.TranID]; dup {
					stats.Duplicates++
				} else {
					p.seen[row.TranID] = struct{}{}
				}
			}

			buffer = append(buffer, row)
			if len(buffer) >= MaxBatchRows {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if tooOld {
			reason = stopOldData
			break
		}

		if page >= data.Pagination.Pages {
			reason = stopLastPage
			break
		}

		p.sleep(p.PageDelay)
	}

	logger.Infof("Period %d done: %s", period, reason)
	return flush()
}
