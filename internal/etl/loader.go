package etl

import (
	"context"

	"github.com/campfin/fecload/pkg/logger"
	"github.com/campfin/fecload/pkg/models"
)

// MaxBatchRows caps one insert call; BigQuery rejects requests much past
// 10k rows, so stay comfortably under it.
const MaxBatchRows = 8000

// Inserter is the row-commit handle; satisfied by *bigquery.Inserter.
type Inserter interface {
	Put(ctx context.Context, src interface{}) error
}

// BigQueryLoader commits reporting rows in bounded, ordered chunks.
// A failed chunk fails the call immediately; chunks committed before it
// stay committed. No reordering or deduplication happens here.
type BigQueryLoader struct {
	Inserter  Inserter
	Table     string
	BatchSize int
}

func NewBigQueryLoader(ins Inserter, table string) *BigQueryLoader {
	return &BigQueryLoader{Inserter: ins, Table: table, BatchSize: MaxBatchRows}
}

// Load commits rows in chunks of at most BatchSize, returning how many rows
// were committed regardless of outcome.
func (l *BigQueryLoader) Load(ctx context.Context, rows []*models.ContributionRow) (int, error) {
	total := len(rows)
	if total == 0 {
		return 0, nil
	}
	logger.Infof("Inserting %d rows into %s", total, l.Table)

	committed := 0
	for start := 0; start < total; start += l.BatchSize {
		end := start + l.BatchSize
		if end > total {
			end = total
		}
		batch := rows[start:end]
		if err := l.Inserter.Put(ctx, batch); err != nil {
			return committed, &LoadError{Table: l.Table, Committed: committed, Err: err}
		}
		committed += len(batch)
		logger.Infof("Inserted batch of %d rows", len(batch))
	}
	return committed, nil
}
