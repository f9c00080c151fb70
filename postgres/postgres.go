package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/bxcodec/dbresolver/v2"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Dhruv-9623/Bank-Hub/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

var (
	credentialsPattern = regexp.MustCompile(`://[^@\s]+@`)
	passwordPattern    = regexp.MustCompile(`(?i)(password=)([^\s&]+)`)
)

// Config carries the connection settings for the storage layer.
type Config struct {
	// PrimaryDSN is the read-write connection string. Required.
	PrimaryDSN string
	// ReplicaDSN is the read-only connection string. Defaults to PrimaryDSN.
	ReplicaDSN string
	// DatabaseName is the database the migrations run against. Required.
	DatabaseName string
	// MaxOpenConnections and MaxIdleConnections bound each pool.
	MaxOpenConnections int
	MaxIdleConnections int
	Logger             log.Logger
}

func (c *Config) withDefaults() Config {
	cfg := *c

	if cfg.ReplicaDSN == "" {
		cfg.ReplicaDSN = cfg.PrimaryDSN
	}

	if cfg.MaxOpenConnections <= 0 {
		cfg.MaxOpenConnections = defaultMaxOpenConns
	}

	if cfg.MaxIdleConnections <= 0 {
		cfg.MaxIdleConnections = defaultMaxIdleConns
	}

	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	return cfg
}

// Connection is a lazily-established primary/replica connection hub. It is
// safe for concurrent use; the first caller to need the database pays the
// connection and migration cost.
type Connection struct {
	cfg Config

	mu       sync.RWMutex
	resolver dbresolver.DB
	primary  *sql.DB
}

// New builds a Connection from the config. It does not dial the database;
// call Connect, or let the first DB call connect on demand.
func New(cfg Config) (*Connection, error) {
	if cfg.PrimaryDSN == "" {
		return nil, errors.New("postgres: primary DSN is required")
	}

	if cfg.DatabaseName == "" {
		return nil, errors.New("postgres: database name is required")
	}

	return &Connection{cfg: cfg.withDefaults()}, nil
}

// Connect dials both pools, runs pending migrations against the primary and
// verifies connectivity. Reconnecting on an already-connected hub closes the
// previous pools first.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connectLocked(ctx)
}

func (c *Connection) connectLocked(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("postgres: connect: %w", err)
	}

	if c.resolver != nil {
		if err := c.closeLocked(); err != nil {
			c.cfg.Logger.Warnf("closing previous connection before reconnect: %v", err)
		}
	}

	primary, err := c.openPool(c.cfg.PrimaryDSN)
	if err != nil {
		return fmt.Errorf("postgres: open primary: %s", sanitizeDSNError(err))
	}

	var success bool

	defer func() {
		if !success {
			primary.Close()
		}
	}()

	replica, err := c.openPool(c.cfg.ReplicaDSN)
	if err != nil {
		return fmt.Errorf("postgres: open replica: %s", sanitizeDSNError(err))
	}

	defer func() {
		if !success {
			replica.Close()
		}
	}()

	if err := runMigrations(primary, c.cfg.DatabaseName, c.cfg.Logger); err != nil {
		return err
	}

	resolver := dbresolver.New(
		dbresolver.WithPrimaryDBs(primary),
		dbresolver.WithReplicaDBs(replica),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB),
	)

	if err := resolver.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}

	c.resolver = resolver
	c.primary = primary
	success = true

	c.cfg.Logger.Info("connected to postgres")

	return nil
}

func (c *Connection) openPool(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(c.cfg.MaxOpenConnections)
	db.SetMaxIdleConns(c.cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	return db, nil
}

// DB returns the read/write resolver, connecting on first use.
func (c *Connection) DB(ctx context.Context) (dbresolver.DB, error) {
	c.mu.RLock()

	if c.resolver != nil {
		db := c.resolver
		c.mu.RUnlock()

		return db, nil
	}

	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolver != nil {
		return c.resolver, nil
	}

	if err := c.connectLocked(ctx); err != nil {
		return nil, err
	}

	return c.resolver, nil
}

// Writer returns the read-write pool, connecting on first use. Statements
// that mutate and read back in one round trip (UPDATE ... RETURNING) must go
// through the writer: the resolver routes all Query calls to the replica.
func (c *Connection) Writer(ctx context.Context) (*sql.DB, error) {
	c.mu.RLock()

	if c.primary != nil {
		db := c.primary
		c.mu.RUnlock()

		return db, nil
	}

	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primary != nil {
		return c.primary, nil
	}

	if err := c.connectLocked(ctx); err != nil {
		return nil, err
	}

	return c.primary, nil
}

// Primary returns the raw read-write pool. It errors when the hub has not
// connected yet.
func (c *Connection) Primary() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.primary == nil {
		return nil, errors.New("postgres: not connected")
	}

	return c.primary, nil
}

// Close releases both pools.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	if c.resolver == nil {
		return nil
	}

	err := c.resolver.Close()
	c.resolver = nil
	c.primary = nil

	return err
}

// runMigrations applies the embedded schema migrations to the primary.
func runMigrations(primary *sql.DB, databaseName string, logger log.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("postgres: load migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(primary, &migratepg.Config{
		DatabaseName: databaseName,
		SchemaName:   "public",
	})
	if err != nil {
		return fmt.Errorf("postgres: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, databaseName, driver)
	if err != nil {
		return fmt.Errorf("postgres: migration instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("no new migrations")
			return nil
		}

		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return fmt.Errorf("postgres: dirty database version %d", dirty.Version)
		}

		return fmt.Errorf("postgres: migrate: %w", err)
	}

	logger.Info("schema migrations applied")

	return nil
}

// sanitizeDSNError strips credentials from driver errors before they reach
// logs or callers.
func sanitizeDSNError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := credentialsPattern.ReplaceAllString(err.Error(), "://***@")

	return passwordPattern.ReplaceAllString(sanitized, "${1}***")
}
