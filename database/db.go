package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/trend/shared"
	"github.com/google/uuid"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createRunTableSQL      = "CREATE TABLE IF NOT EXISTS runs (id TEXT PRIMARY KEY, market TEXT, variant TEXT, intervals INTEGER, createdon INTEGER)"
	createIntervalTableSQL = "CREATE TABLE IF NOT EXISTS intervals (id TEXT PRIMARY KEY, runid TEXT, position INTEGER, startdate INTEGER, enddate INTEGER, startprice REAL, endprice REAL, lowprice REAL, highprice REAL, pctchange REAL, durationdays INTEGER, trend TEXT, highpricedate INTEGER, lowpricedate INTEGER)"
	persistRunSQL          = "INSERT INTO runs(id, market, variant, intervals, createdon) VALUES(?,?,?,?,?)"
	persistIntervalSQL     = "INSERT INTO intervals(id, runid, position, startdate, enddate, startprice, endprice, lowprice, highprice, pctchange, durationdays, trend, highpricedate, lowpricedate) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)"

	// defaultBootstrapTimeout is the default duration bootstrapping is retried for.
	defaultBootstrapTimeout = time.Second * 30
)

// IntervalStorer defines the requirements for storing analyzed intervals.
type IntervalStorer interface {
	// PersistIntervals stores the provided enriched intervals of a market analysis as a single
	// run and returns the run id.
	PersistIntervals(ctx context.Context, market string, variant shared.Variant, intervals []shared.EnrichedInterval) (string, error)
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// BootstrapTimeout is the duration bootstrapping is retried for, defaults to 30 seconds.
	BootstrapTimeout time.Duration
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the IntervalStorer interface.
var _ IntervalStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	if cfg.User != "" {
		client.SetBasicAuth(cfg.User, cfg.Pass)
	}

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database, retrying while the database is unreachable.
func (db *Database) bootstrap(ctx context.Context) error {
	operation := func() error {
		resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
			{SQL: createRunTableSQL},
			{SQL: createIntervalTableSQL},
		}, &rqlitehttp.ExecuteOptions{
			Transaction: true,
			Timings:     true,
		})
		if err != nil {
			db.cfg.Logger.Warn().Msgf("database not ready: %v", err)
			return err
		}

		has, idx, errStr := resp.HasError()
		if has {
			return backoff.Permanent(fmt.Errorf("creating tables: %d -> %s", idx, errStr))
		}

		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.InitialInterval = time.Millisecond * 100
	backoffStrategy.MaxElapsedTime = db.cfg.BootstrapTimeout
	if backoffStrategy.MaxElapsedTime == 0 {
		backoffStrategy.MaxElapsedTime = defaultBootstrapTimeout
	}

	return backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx))
}

// nullableUnix returns the unix time of the provided date or nil when unknown.
func nullableUnix(date *time.Time) any {
	if date == nil {
		return nil
	}

	return date.Unix()
}

// PersistIntervals stores the provided enriched intervals of a market analysis as a single run
// and returns the run id.
func (db *Database) PersistIntervals(ctx context.Context, market string, variant shared.Variant, intervals []shared.EnrichedInterval) (string, error) {
	runID := uuid.New().String()

	statements := rqlitehttp.SQLStatements{
		{
			SQL:              persistRunSQL,
			PositionalParams: []any{runID, market, variant.String(), len(intervals), time.Now().Unix()},
		},
	}

	for idx := range intervals {
		interval := intervals[idx]
		statements = append(statements, rqlitehttp.SQLStatements{
			{
				SQL: persistIntervalSQL,
				PositionalParams: []any{uuid.New().String(), runID, idx, interval.Start.Unix(),
					interval.End.Unix(), interval.StartPrice, interval.EndPrice, interval.LowPrice,
					interval.HighPrice, interval.PctChange, interval.Days(), interval.Trend.String(),
					nullableUnix(interval.HighPriceDate), nullableUnix(interval.LowPriceDate)},
			},
		}...)
	}

	resp, err := db.client.Execute(ctx, statements, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return "", fmt.Errorf("persisting %s intervals for %s: %w", variant, market, err)
	}

	has, idx, errStr := resp.HasError()
	if has {
		db.cfg.Logger.Error().Msgf("unexpected persist response for run %s: %s", runID, spew.Sdump(resp))
		return "", fmt.Errorf("persisting run %s: %d -> %s", runID, idx, errStr)
	}

	return runID, nil
}
