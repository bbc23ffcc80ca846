package integration

import (
	"context"
	"testing"
	"time"

	"dukkan/internal/database"
	"dukkan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and
// applies the embedded schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedUser inserts a user and returns its ID.
func (db *TestDB) SeedUser(t *testing.T, fullName, phone string, role model.UserRole, verified bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO users (id, full_name, phone, role, is_otp) VALUES ($1, $2, $3, $4, $5)`,
		id, fullName, phone, string(role), verified)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// SeedAddress inserts a geocoded address for the user and returns its ID.
func (db *TestDB) SeedAddress(t *testing.T, userID uuid.UUID, instructions string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO addresses (id, user_id, district, street, building_number, delivery_instructions, latitude, longitude)
		 VALUES ($1, $2, 'العليا', 'شارع التحلية', '12', $3, 24.7136, 46.6753)`,
		id, userID, instructions)
	if err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}
	return id
}

// SeedShift inserts a delivery shift and returns its ID.
func (db *TestDB) SeedShift(t *testing.T, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO shifts (id, name, start_time, end_time) VALUES ($1, $2, $3, $4)`,
		id, name, now, now.Add(4*time.Hour))
	if err != nil {
		t.Fatalf("failed to seed shift: %v", err)
	}
	return id
}

// SeedCartItem inserts a cart row directly.
func (db *TestDB) SeedCartItem(t *testing.T, userID uuid.UUID, productID string, price decimal.Decimal, quantity int) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO cart_items (user_id, product_id, product_name, price, quantity) VALUES ($1, $2, $2, $3, $4)`,
		userID, productID, price, quantity)
	if err != nil {
		t.Fatalf("failed to seed cart item: %v", err)
	}
}
