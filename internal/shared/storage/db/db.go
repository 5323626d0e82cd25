package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"agri-backend/internal/shared/telemetry"
)

// Options controls database pool and connectivity behavior.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Profile names the kind of process opening the soil analysis database.
type Profile string

const (
	ProfileServer  Profile = "server"
	ProfileLambda  Profile = "lambda"
	ProfileMigrate Profile = "migrate"
)

const defaultPingTimeout = 5 * time.Second

// Lambda keeps the pool tiny because every concurrent invocation owns one.
var profileDefaults = map[Profile]Options{
	ProfileServer: {
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	},
	ProfileLambda: {
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 30 * time.Second,
		ConnMaxLifetime: 15 * time.Minute,
		PingTimeout:     3 * time.Second,
	},
	ProfileMigrate: {
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	},
}

var (
	openDB         = sql.Open
	singletonMu    sync.Mutex
	singletonCond  = sync.NewCond(&singletonMu)
	singletonDB    *sql.DB
	singletonInFly bool
)

// DetectProfile returns ProfileLambda inside AWS Lambda and ProfileServer
// everywhere else.
func DetectProfile() Profile {
	if strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "" {
		return ProfileLambda
	}
	return ProfileServer
}

// OptionsFor returns the pool defaults of p with DB_* overrides applied.
// Unknown profiles fall back to the server defaults.
func OptionsFor(p Profile) Options {
	opts, ok := profileDefaults[p]
	if !ok {
		opts = profileDefaults[ProfileServer]
	}
	return opts.withEnv()
}

func (o Options) withEnv() Options {
	counts := []struct {
		key string
		dst *int
	}{
		{"DB_MAX_OPEN_CONNS", &o.MaxOpenConns},
		{"DB_MAX_IDLE_CONNS", &o.MaxIdleConns},
	}
	for _, c := range counts {
		if raw := envValue(c.key); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				*c.dst = v
			} else {
				telemetry.Warn("db.env_invalid", map[string]any{"key": c.key, "error": err})
			}
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"DB_CONN_MAX_LIFETIME", &o.ConnMaxLifetime},
		{"DB_CONN_MAX_IDLE_TIME", &o.ConnMaxIdleTime},
		{"DB_PING_TIMEOUT", &o.PingTimeout},
	}
	for _, d := range durations {
		if raw := envValue(d.key); raw != "" {
			if v, err := time.ParseDuration(raw); err == nil {
				*d.dst = v
			} else {
				telemetry.Warn("db.env_invalid", map[string]any{"key": d.key, "error": err})
			}
		}
	}
	return o
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Open connects with the options of p. Lambda invocations share one pool per
// execution environment; other profiles get a fresh pool.
func Open(ctx context.Context, databaseURL string, p Profile) (*sql.DB, error) {
	opts := OptionsFor(p)
	if p == ProfileLambda {
		return GetSingleton(ctx, databaseURL, opts)
	}
	return Connect(ctx, databaseURL, opts)
}

// Connect opens a *sql.DB using the provided DATABASE_URL and verifies connectivity.
// The returned *sql.DB should be shared and re-used by callers.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(db, opts)

	if err := ping(ctx, db, opts.PingTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logPoolStats(db, "db.init")
	return db, nil
}

// Checker returns a health check that pings db and logs the pool when the
// ping fails.
func Checker(db *sql.DB, timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := ping(ctx, db, timeout); err != nil {
			logPoolStats(db, "db.ping_failed")
			return err
		}
		return nil
	}
}

func ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(pingCtx)
}

// GetSingleton returns a process-wide *sql.DB, initializing it once per execution environment.
// If initialization fails, a later call will retry until successful.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	singletonMu.Lock()
	for singletonInFly && singletonDB == nil {
		singletonCond.Wait()
	}
	if singletonDB != nil {
		db := singletonDB
		singletonMu.Unlock()
		telemetry.Info("db.singleton_reuse", nil)
		return db, nil
	}
	singletonInFly = true
	singletonMu.Unlock()

	db, err := Connect(ctx, databaseURL, opts)

	singletonMu.Lock()
	if err == nil {
		singletonDB = db
	}
	singletonInFly = false
	singletonCond.Broadcast()
	singletonMu.Unlock()

	if err != nil {
		return nil, err
	}
	telemetry.Info("db.singleton_init", nil)
	return db, nil
}

func applyOptions(db *sql.DB, opts Options) {
	fallback := profileDefaults[ProfileServer]
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = fallback.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = fallback.MaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = fallback.ConnMaxLifetime
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func logPoolStats(db *sql.DB, label string) {
	stats := db.Stats()
	telemetry.Info(label, map[string]any{
		"open":     stats.OpenConnections,
		"in_use":   stats.InUse,
		"idle":     stats.Idle,
		"wait":     stats.WaitCount,
		"max_open": stats.MaxOpenConnections,
	})
}
