package repository

import (
	"context"
	"errors"
	"fmt"

	"dukkan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// shiftRepository implements ShiftRepository using PostgreSQL.
type shiftRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShiftRepository creates a new PostgreSQL-backed shift repository.
func NewShiftRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShiftRepository {
	return &shiftRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shift").Logger(),
	}
}

// GetByID retrieves a shift, or nil when not found.
func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	query := `SELECT id, name, start_time, end_time FROM shifts WHERE id = $1`

	var shift model.Shift
	err := r.pool.QueryRow(ctx, query, id).Scan(&shift.ID, &shift.Name, &shift.StartTime, &shift.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("shift_id", id.String()).Msg("failed to get shift")
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}

	return &shift, nil
}
