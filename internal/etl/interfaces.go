package etl

import (
	"context"

	"github.com/campfin/fecload/pkg/models"
)

type PageFetcher interface {
	FetchPage(ctx context.Context, period, page int) (*models.ContributionsPage, error)
}

type RowLoader interface {
	Load(ctx context.Context, rows []*models.ContributionRow) (int, error)
}

// Destination is the subset of warehouse operations the pipeline drives.
type Destination interface {
	Truncate(ctx context.Context, table string) error
	Promote(ctx context.Context, from, to string) error
}
