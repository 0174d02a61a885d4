package warehouse

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/campfin/fecload/pkg/logger"
)

// Client wraps the BigQuery connection together with the dataset this job
// owns. The staging and final tables live in the same dataset and share a
// schema; the job assumes it is the only writer for the duration of a run.
type Client struct {
	bq      *bigquery.Client
	project string
	dataset string
}

// Connect builds a BigQuery client from an explicit service-account file
// when one is configured, otherwise from application-default credentials.
// An empty project falls back to the credentials' default project.
func Connect(ctx context.Context, project, credentialsPath, dataset string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	if project == "" {
		project = bigquery.DetectProjectID
	}

	bq, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating BigQuery client: %w", err)
	}

	logger.Infof("Using BigQuery project: %s", bq.Project())
	return &Client{bq: bq, project: bq.Project(), dataset: dataset}, nil
}

func (c *Client) Project() string {
	return c.project
}

// Inserter returns the row-insert handle for a table in the job dataset.
func (c *Client) Inserter(table string) *bigquery.Inserter {
	return c.bq.Dataset(c.dataset).Table(table).Inserter()
}

// Truncate removes all rows from a table.
func (c *Client) Truncate(ctx context.Context, table string) error {
	return c.run(ctx, fmt.Sprintf("TRUNCATE TABLE `%s.%s.%s`", c.project, c.dataset, table))
}

// Promote replaces the contents of to with the contents of from. Both tables
// share a schema, so truncate followed by insert-select is a full replace;
// repeating it against unchanged staging content yields the same final
// content.
func (c *Client) Promote(ctx context.Context, from, to string) error {
	if err := c.Truncate(ctx, to); err != nil {
		return err
	}
	return c.run(ctx, fmt.Sprintf("INSERT INTO `%s.%s.%s` SELECT * FROM `%s.%s.%s`",
		c.project, c.dataset, to, c.project, c.dataset, from))
}

func (c *Client) run(ctx context.Context, sql string) error {
	job, err := c.bq.Query(sql).Run(ctx)
	if err != nil {
		return fmt.Errorf("starting query %q: %w", sql, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for query %q: %w", sql, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("query %q failed: %w", sql, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.bq.Close()
}
