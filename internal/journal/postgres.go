package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresJournal implements Journal using PostgreSQL.
type PostgresJournal struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

const schema = `
	CREATE TABLE IF NOT EXISTS order_journal (
		order_hash   TEXT PRIMARY KEY,
		market_hash  TEXT NOT NULL,
		subaccount   NUMERIC NOT NULL,
		order_type   TEXT NOT NULL,
		direction    TEXT NOT NULL,
		size         NUMERIC NOT NULL,
		limit_price  NUMERIC,
		placed_at    TIMESTAMPTZ NOT NULL,
		canceled_at  TIMESTAMPTZ
	)
`

// NewPostgresJournal connects to PostgreSQL and ensures the journal table
// exists.
func NewPostgresJournal(cfg *PostgresConfig) (*PostgresJournal, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create journal table: %w", err)
	}

	cfg.Logger.Info("postgres-journal-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresJournal{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// RecordPlacement inserts a placed order into the journal.
func (p *PostgresJournal) RecordPlacement(ctx context.Context, rec *OrderRecord) error {
	query := `
		INSERT INTO order_journal (
			order_hash, market_hash, subaccount, order_type,
			direction, size, limit_price, placed_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
	`

	_, err := p.db.ExecContext(ctx, query,
		rec.OrderHash,
		rec.MarketHash,
		fmt.Sprintf("%d", rec.Subaccount),
		rec.OrderType,
		rec.Direction,
		rec.Size,
		rec.LimitPrice,
		rec.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	p.logger.Debug("order-journaled",
		zap.String("order-hash", rec.OrderHash),
		zap.Uint64("subaccount", rec.Subaccount))

	return nil
}

// RecordCancellation marks a journaled order as canceled.
func (p *PostgresJournal) RecordCancellation(ctx context.Context, orderHash string) error {
	query := `
		UPDATE order_journal SET canceled_at = $1
		WHERE order_hash = $2
	`

	_, err := p.db.ExecContext(ctx, query, time.Now().UTC(), orderHash)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	p.logger.Debug("cancellation-journaled", zap.String("order-hash", orderHash))

	return nil
}

// Close closes the database connection.
func (p *PostgresJournal) Close() error {
	return p.db.Close()
}
