package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type Config struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	PoolSize     int
	MaxIdleConns int
	MaxLifetime  int
}

// DB owns the pgx connection pool plus the bun handle the repositories
// run their queries through.
type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg Config) (*DB, error) {
	// Probe reachability before handing the address to the pool so a bad
	// host fails fast with a clear error.
	var conn net.Conn
	var err error
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connString(cfg) + "&sslmode=disable")))
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	return &DB{pool: pool, bunDB: bunDB}, nil
}

func connString(cfg Config) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func (db *DB) Pool() *pgxpool.Pool { return db.pool }

func (db *DB) BunDB() *bun.DB { return db.bunDB }

func (db *DB) Close() {
	if db.bunDB != nil {
		db.bunDB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

func (db *DB) ExecWithLog(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, query, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("query", query),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("query", query),
		slog.Duration("took", duration),
	)
	return result, nil
}

// InitializeSchema creates the relational schema if it is not there yet.
// Child tables cascade on guild/user deletion so that dropping an entity
// drops everything it owns.
func (db *DB) InitializeSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS guilds (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			is_whitelist BOOLEAN NOT NULL DEFAULT FALSE,
			prefix VARCHAR(5) NOT NULL DEFAULT '$'
		)`,
		`CREATE TABLE IF NOT EXISTS guilds_logs (
			guild_id BIGINT PRIMARY KEY REFERENCES guilds(id) ON UPDATE CASCADE ON DELETE CASCADE,
			log_channel BIGINT,
			guild_channel_create BOOLEAN NOT NULL DEFAULT TRUE,
			guild_channel_update BOOLEAN NOT NULL DEFAULT TRUE,
			guild_channel_delete BOOLEAN NOT NULL DEFAULT TRUE,
			guild_role_create BOOLEAN NOT NULL DEFAULT TRUE,
			guild_role_update BOOLEAN NOT NULL DEFAULT TRUE,
			guild_role_delete BOOLEAN NOT NULL DEFAULT TRUE,
			member_join BOOLEAN NOT NULL DEFAULT TRUE,
			member_update BOOLEAN NOT NULL DEFAULT TRUE,
			member_leave BOOLEAN NOT NULL DEFAULT TRUE,
			message_create BOOLEAN NOT NULL DEFAULT FALSE,
			message_update BOOLEAN NOT NULL DEFAULT TRUE,
			message_delete BOOLEAN NOT NULL DEFAULT TRUE,
			command_complete BOOLEAN NOT NULL DEFAULT FALSE,
			command_error BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			is_whitelist BOOLEAN NOT NULL DEFAULT TRUE,
			balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			daily_streak INT NOT NULL DEFAULT 0 CHECK (daily_streak >= 0),
			last_daily TIMESTAMPTZ,
			world SMALLINT NOT NULL DEFAULT 0,
			last_world_move TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			sort_id INT NOT NULL,
			name TEXT NOT NULL,
			aliases TEXT[] NOT NULL DEFAULT '{}',
			emoji TEXT NOT NULL,
			description TEXT NOT NULL,
			buy_price BIGINT,
			sell_price BIGINT,
			durability INT
		)`,
		`CREATE TABLE IF NOT EXISTS user_inventory (
			user_id BIGINT REFERENCES users(id) ON UPDATE CASCADE ON DELETE CASCADE,
			item_id TEXT REFERENCES items(id) ON UPDATE CASCADE ON DELETE CASCADE,
			amount INT NOT NULL CHECK (amount >= 1),
			PRIMARY KEY (user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_equipment (
			user_id BIGINT REFERENCES users(id) ON UPDATE CASCADE ON DELETE CASCADE,
			item_id TEXT REFERENCES items(id) ON UPDATE CASCADE ON DELETE CASCADE,
			eq_type TEXT NOT NULL,
			remain_durability INT NOT NULL CHECK (remain_durability >= 1),
			PRIMARY KEY (user_id, item_id),
			UNIQUE (user_id, eq_type)
		)`,
		`CREATE TABLE IF NOT EXISTS user_active_potions (
			user_id BIGINT REFERENCES users(id) ON UPDATE CASCADE ON DELETE CASCADE,
			item_id TEXT REFERENCES items(id) ON UPDATE CASCADE ON DELETE CASCADE,
			remain_uses INT NOT NULL CHECK (remain_uses >= 1),
			PRIMARY KEY (user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_active_portals (
			user_id BIGINT REFERENCES users(id) ON UPDATE CASCADE ON DELETE CASCADE,
			item_id TEXT REFERENCES items(id) ON UPDATE CASCADE ON DELETE CASCADE,
			remain_uses INT NOT NULL CHECK (remain_uses >= 1),
			PRIMARY KEY (user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS badges (
			id TEXT PRIMARY KEY,
			sort_id INT NOT NULL,
			name TEXT NOT NULL,
			emoji TEXT NOT NULL,
			description TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_badges (
			user_id BIGINT REFERENCES users(id) ON UPDATE CASCADE ON DELETE CASCADE,
			badge_id TEXT REFERENCES badges(id) ON UPDATE CASCADE ON DELETE CASCADE,
			PRIMARY KEY (user_id, badge_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			remind_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			awake_time TIMESTAMPTZ NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS member_temp_mute (
			user_id BIGINT NOT NULL,
			guild_id BIGINT REFERENCES guilds(id) ON UPDATE CASCADE ON DELETE CASCADE,
			expire TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, guild_id)
		)`,
		`CREATE TABLE IF NOT EXISTS guild_custom_cmd (
			guild_id BIGINT REFERENCES guilds(id) ON UPDATE CASCADE ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			channel BIGINT,
			is_reply BOOLEAN NOT NULL DEFAULT FALSE,
			add_roles BIGINT[] NOT NULL DEFAULT '{}',
			rmv_roles BIGINT[] NOT NULL DEFAULT '{}',
			PRIMARY KEY (guild_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS reminders_awake_time_idx ON reminders (awake_time)`,
		`CREATE INDEX IF NOT EXISTS member_temp_mute_expire_idx ON member_temp_mute (expire)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}
