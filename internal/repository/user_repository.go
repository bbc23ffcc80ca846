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

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// GetByID retrieves a user, or nil when not found.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT id, full_name, phone, role, is_otp, created_at FROM users WHERE id = $1`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FullName, &user.Phone, &user.Role, &user.IsOtp, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateProfile writes the name and phone captured at checkout onto the
// stored profile.
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone string) error {
	query := `UPDATE users SET full_name = $2, phone = $3 WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, fullName, phone)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update profile")
		return fmt.Errorf("failed to update profile: %w", err)
	}

	r.logger.Debug().Str("user_id", id.String()).Msg("profile synced from checkout")
	return nil
}

// GetAddressForUser resolves an address only when owned by the user.
func (r *userRepository) GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*model.Address, error) {
	query := `
		SELECT id, user_id, label, district, street, building_number, floor,
		       apartment_number, landmark, delivery_instructions, latitude, longitude, is_default
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`

	var addr model.Address
	err := r.pool.QueryRow(ctx, query, addressID, userID).Scan(
		&addr.ID, &addr.UserID, &addr.Label, &addr.District, &addr.Street,
		&addr.BuildingNumber, &addr.Floor, &addr.ApartmentNumber, &addr.Landmark,
		&addr.DeliveryInstructions, &addr.Latitude, &addr.Longitude, &addr.IsDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("address_id", addressID.String()).
			Str("user_id", userID.String()).
			Msg("failed to get address")
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	return &addr, nil
}

// ListByRoles retrieves all users holding any of the given roles.
func (r *userRepository) ListByRoles(ctx context.Context, roles ...model.UserRole) ([]model.User, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	query := `
		SELECT id, full_name, phone, role, is_otp, created_at
		FROM users
		WHERE role = ANY($1)
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list users by roles")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.FullName, &user.Phone, &user.Role, &user.IsOtp, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}
