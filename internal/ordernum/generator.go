// Package ordernum generates unique, human-readable order numbers.
package ordernum

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Prefix appears on every generated order number.
const Prefix = "DKN"

// Generator produces a unique order number per call. Safe for
// concurrent use.
type Generator interface {
	Next(ctx context.Context) (string, error)
}

// pgGenerator allocates numbers from a per-day database sequence. The
// increment-and-return is a single statement, so concurrent creations
// can never collide.
type pgGenerator struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewGenerator creates a PostgreSQL-backed order number generator.
func NewGenerator(pool *pgxpool.Pool, logger zerolog.Logger) Generator {
	return &pgGenerator{
		pool:   pool,
		logger: logger.With().Str("component", "ordernum").Logger(),
	}
}

// Next allocates the next number for today.
func (g *pgGenerator) Next(ctx context.Context) (string, error) {
	day := time.Now().UTC().Format("20060102")

	var seq int64
	err := g.pool.QueryRow(ctx, `
		INSERT INTO order_sequences (day_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (day_key)
		DO UPDATE SET last_sequence = order_sequences.last_sequence + 1, updated_at = NOW()
		RETURNING last_sequence
	`, day).Scan(&seq)
	if err != nil {
		g.logger.Error().Err(err).Str("day", day).Msg("failed to allocate order sequence")
		return "", fmt.Errorf("failed to allocate order sequence: %w", err)
	}

	return Format(day, seq), nil
}

// Format renders an order number from its day key and sequence, e.g.
// DKN-20260831-00042.
func Format(day string, seq int64) string {
	return fmt.Sprintf("%s-%s-%05d", Prefix, day, seq)
}
