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

// tripRepository implements TripRepository using PostgreSQL.
type tripRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTripRepository creates a new PostgreSQL-backed trip repository.
func NewTripRepository(pool *pgxpool.Pool, logger zerolog.Logger) TripRepository {
	return &tripRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "trip").Logger(),
	}
}

// StartIfIdle inserts the trip row as a single conditional insert. The
// UNIQUE constraints on driver_id and order_id make the existence check
// and the create one atomic statement; there is no read-then-write race.
func (r *tripRepository) StartIfIdle(ctx context.Context, trip *model.ActiveTrip) (bool, error) {
	query := `
		INSERT INTO active_trips (order_id, driver_id, order_number, latitude, longitude, started_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		trip.OrderID, trip.DriverID, trip.OrderNumber, trip.Latitude, trip.Longitude, trip.StartedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", trip.OrderID.String()).
			Str("driver_id", trip.DriverID.String()).
			Msg("failed to start trip")
		return false, fmt.Errorf("failed to start trip: %w", err)
	}

	started := tag.RowsAffected() > 0
	if started {
		r.logger.Debug().
			Str("order_id", trip.OrderID.String()).
			Str("driver_id", trip.DriverID.String()).
			Msg("trip started")
	}

	return started, nil
}

// UpdateCoordinates updates the driver's live position for the trip
// keyed by (order, driver).
func (r *tripRepository) UpdateCoordinates(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) (bool, error) {
	query := `
		UPDATE active_trips
		SET latitude = $3, longitude = $4, updated_at = NOW()
		WHERE order_id = $1 AND driver_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, orderID, driverID, lat, lng)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("driver_id", driverID.String()).
			Msg("failed to update trip coordinates")
		return false, fmt.Errorf("failed to update trip coordinates: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

const tripColumns = `order_id, driver_id, order_number, latitude, longitude, started_at, updated_at`

func scanTrip(row pgx.Row) (*model.ActiveTrip, error) {
	var trip model.ActiveTrip
	err := row.Scan(&trip.OrderID, &trip.DriverID, &trip.OrderNumber,
		&trip.Latitude, &trip.Longitude, &trip.StartedAt, &trip.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetByOrder retrieves the active trip for an order, or nil.
func (r *tripRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.ActiveTrip, error) {
	query := `SELECT ` + tripColumns + ` FROM active_trips WHERE order_id = $1`

	trip, err := scanTrip(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get trip by order")
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// GetByDriver retrieves the driver's active trip, or nil.
func (r *tripRepository) GetByDriver(ctx context.Context, driverID uuid.UUID) (*model.ActiveTrip, error) {
	query := `SELECT ` + tripColumns + ` FROM active_trips WHERE driver_id = $1`

	trip, err := scanTrip(r.pool.QueryRow(ctx, query, driverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("driver_id", driverID.String()).Msg("failed to get trip by driver")
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// DeleteByOrder removes the trip row for an order. Absence is fine.
func (r *tripRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM active_trips WHERE order_id = $1`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete trip")
		return false, fmt.Errorf("failed to delete trip: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListActive retrieves all active trips, oldest first.
func (r *tripRepository) ListActive(ctx context.Context) ([]model.ActiveTrip, error) {
	query := `SELECT ` + tripColumns + ` FROM active_trips ORDER BY started_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list active trips")
		return nil, fmt.Errorf("failed to list active trips: %w", err)
	}
	defer rows.Close()

	var trips []model.ActiveTrip
	for rows.Next() {
		var trip model.ActiveTrip
		if err := rows.Scan(&trip.OrderID, &trip.DriverID, &trip.OrderNumber,
			&trip.Latitude, &trip.Longitude, &trip.StartedAt, &trip.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trip rows: %w", err)
	}

	return trips, nil
}
