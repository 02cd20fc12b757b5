package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/poiesic/domus/core"
)

// QueryExecutor runs Cypher queries against a graph database.
type QueryExecutor interface {
	// Run executes the query and returns one record per result row.
	Run(ctx context.Context, cypher string) ([]core.GraphRecord, error)

	// Close releases the underlying connection pool.
	Close(ctx context.Context) error
}

// ExecutorConfig holds connection settings for the Neo4j executor.
type ExecutorConfig struct {
	URI         string
	User        string
	Password    string
	Database    string
	Timeout     time.Duration
	MaxPoolSize int
}

// Neo4jExecutor implements QueryExecutor backed by a Neo4j driver.
type Neo4jExecutor struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
	closed   bool
}

// NewNeo4jExecutor connects to Neo4j and verifies connectivity before
// returning. The caller must Close the executor when done.
func NewNeo4jExecutor(ctx context.Context, cfg ExecutorConfig) (*Neo4jExecutor, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j URI is required")
	}
	if cfg.User == "" {
		cfg.User = "neo4j"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = 50
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPoolSize
		c.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("init neo4j driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	return &Neo4jExecutor{
		driver:   driver,
		database: cfg.Database,
		logger:   slog.Default().With("component", "neo4j-executor"),
	}, nil
}

// Run executes a Cypher query and converts each row to a core.GraphRecord.
func (e *Neo4jExecutor) Run(ctx context.Context, cypher string) ([]core.GraphRecord, error) {
	if e.closed {
		return nil, ErrExecutorClosed
	}
	if cypher == "" {
		return nil, ErrEmptyCypher
	}

	session := e.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: e.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer func() {
		if err := session.Close(ctx); err != nil {
			e.logger.Warn("failed to close neo4j session", "err", err)
		}
	}()

	result, err := session.Run(ctx, cypher, nil)
	if err != nil {
		e.logger.Error("cypher execution failed", "err", err)
		return nil, fmt.Errorf("run cypher: %w", err)
	}

	var records []core.GraphRecord
	for result.Next(ctx) {
		records = append(records, core.GraphRecord(result.Record().AsMap()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("consume cypher results: %w", err)
	}

	e.logger.Debug("cypher query executed", "records", len(records))
	return records, nil
}

// Close shuts down the driver connection pool.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.driver.Close(ctx)
}
