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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, order_number, customer_id, address_id, status, amount,
		                    payment_method, shift_id, delivery_instructions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.CustomerID, order.AddressID, order.Status,
		order.Amount, order.PaymentMethod, order.ShiftID, order.DeliveryInstructions, order.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created")

	return nil
}

// CreateItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created")

	return nil
}

const orderColumns = `id, order_number, customer_id, address_id, status, amount,
	payment_method, shift_id, delivery_instructions, driver_id, cancel_reason, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CustomerID, &order.AddressID, &order.Status,
		&order.Amount, &order.PaymentMethod, &order.ShiftID, &order.DeliveryInstructions,
		&order.DriverID, &order.CancelReason, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read order item rows: %w", err)
	}

	return order, items, nil
}

// GetByNumber retrieves an order by its human-readable order number.
func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_number", orderNumber).Msg("failed to get order by number")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// AssignDriver sets the driver and ASSIGNED status atomically, guarded
// on the current status.
func (r *orderRepository) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET driver_id = $2, status = $3
		WHERE id = $1 AND status IN ($4, $5)
	`

	tag, err := r.pool.Exec(ctx, query, orderID, driverID,
		model.StatusAssigned, model.StatusPending, model.StatusAssigned)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("driver_id", driverID.String()).
			Msg("failed to assign driver")
		return false, fmt.Errorf("failed to assign driver: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateStatus moves the order to the given status, guarded on a set of
// allowed current statuses. The guard and the write are one statement.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, allowed []model.OrderStatus, to model.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $2 WHERE id = $1 AND status = ANY($3)`

	current := make([]string, len(allowed))
	for i, s := range allowed {
		current[i] = string(s)
	}

	tag, err := r.pool.Exec(ctx, query, orderID, to, current)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Cancel records the cancellation reason and flips the status, guarded
// against terminal states.
func (r *orderRepository) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, cancel_reason = $3
		WHERE id = $1 AND status NOT IN ($4, $5)
	`

	tag, err := r.pool.Exec(ctx, query, orderID,
		model.StatusCanceled, reason, model.StatusDelivered, model.StatusCanceled)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to cancel order")
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
