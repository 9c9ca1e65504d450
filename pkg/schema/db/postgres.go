package db

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pure-bhakti-vault-api/pkg/schema/config"
)

var (
	pgDB   *sqlx.DB
	pgOnce sync.Once
	pgMu   sync.RWMutex
)

// postgresEnabled tracks whether Postgres was initialized
var postgresEnabled bool

// InitPostgres initializes the PostgreSQL database connection.
func InitPostgres(ctx context.Context) error {
	var initErr error
	pgOnce.Do(func() {
		cfg := config.GetConfig()

		dsn, err := WithTimeouts(cfg.DSN(), cfg.PostgresConnectTimeout, cfg.PostgresStatementTimeout)
		if err != nil {
			initErr = fmt.Errorf("build postgres dsn: %w", err)
			return
		}

		db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
		if err != nil {
			initErr = fmt.Errorf("failed to connect to PostgreSQL: %w", err)
			return
		}

		// Configure connection pool
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(1 * time.Minute)

		// Verify connectivity
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			initErr = fmt.Errorf("failed to ping PostgreSQL: %w", err)
			return
		}

		pgMu.Lock()
		pgDB = db
		pgMu.Unlock()
		postgresEnabled = true
	})
	return initErr
}

// WithTimeouts adds connect_timeout (seconds) and a statement_timeout (milliseconds,
// passed through the options parameter) to a postgres:// URL. Values already present win.
func WithTimeouts(dsn string, connect, statement time.Duration) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	q := u.Query()
	if connect > 0 && q.Get("connect_timeout") == "" {
		q.Set("connect_timeout", strconv.Itoa(int(connect/time.Second)))
	}
	if statement > 0 && !strings.Contains(q.Get("options"), "statement_timeout") {
		opt := "-c statement_timeout=" + strconv.FormatInt(statement.Milliseconds(), 10)
		if existing := q.Get("options"); existing != "" {
			opt = existing + " " + opt
		}
		q.Set("options", opt)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PostgresEnabled returns whether Postgres is available
func PostgresEnabled() bool {
	return postgresEnabled
}

// GetPostgres returns the PostgreSQL database instance
func GetPostgres() *sqlx.DB {
	pgMu.RLock()
	defer pgMu.RUnlock()
	return pgDB
}

// ClosePostgres closes the PostgreSQL database connection
func ClosePostgres() error {
	pgMu.Lock()
	defer pgMu.Unlock()
	if pgDB != nil {
		return pgDB.Close()
	}
	return nil
}
