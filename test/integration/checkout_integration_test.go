package integration

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"dukkan/internal/cache"
	"dukkan/internal/checkout"
	"dukkan/internal/model"
	"dukkan/internal/notify"
	"dukkan/internal/ordernum"
	"dukkan/internal/pricing"
	"dukkan/internal/repository"
	"dukkan/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutService(db *TestDB) (service.CheckoutService, service.CartService, repository.NotificationRepository) {
	logger := zerolog.Nop()

	cartRepo := repository.NewCartRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	shiftRepo := repository.NewShiftRepository(db.Pool, logger)
	notificationRepo := repository.NewNotificationRepository(db.Pool, logger)

	dispatcher := notify.NewDispatcher(notificationRepo, nil, nil, time.Second, logger)
	generator := ordernum.NewGenerator(db.Pool, logger)

	checkoutService := service.NewCheckoutService(
		userRepo, cartRepo, shiftRepo, orderRepo,
		generator, pricing.DefaultSettings(), dispatcher,
		cache.NewNopInvalidator(), logger,
	)
	cartService := service.NewCartService(cartRepo, logger)

	return checkoutService, cartService, notificationRepo
}

func TestCheckoutFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()

	checkoutService, cartService, notificationRepo := newCheckoutService(db)

	customerID := db.SeedUser(t, "محمد العتيبي", "0551234567", model.RoleCustomer, true)
	adminID := db.SeedUser(t, "مشرف", "0500000001", model.RoleAdmin, true)
	addressID := db.SeedAddress(t, customerID, "اتصل عند الوصول")
	shiftID := db.SeedShift(t, "مسائية")

	// Build a 150 SAR cart through the sync operation.
	require.NoError(t, cartService.Sync(ctx, customerID, "prod-1", "تمر سكري", decimal.NewFromInt(50), 2))
	require.NoError(t, cartService.Sync(ctx, customerID, "prod-2", "قهوة عربية", decimal.NewFromInt(50), 1))

	result, err := checkoutService.PlaceOrder(ctx, customerID, checkout.CheckoutInput{
		FullName:      "محمد العتيبي",
		Phone:         "0551234567",
		AddressID:     addressID.String(),
		ShiftID:       shiftID.String(),
		PaymentMethod: model.PaymentCash,
		TermsAccepted: true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.OrderNumber, "DKN-"), "order number: %s", result.OrderNumber)
	// 150 subtotal + 25 fee + 26.25 tax
	assert.True(t, result.Quote.Total.Equal(decimal.RequireFromString("201.25")),
		"total: got %s", result.Quote.Total)

	// The persisted order is PENDING with the computed amount and the
	// address's delivery instructions snapshotted.
	orderRepo := repository.NewOrderRepository(db.Pool, zerolog.Nop())
	order, err := orderRepo.GetByNumber(ctx, result.OrderNumber)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.True(t, order.Amount.Equal(decimal.RequireFromString("201.25")))
	assert.Equal(t, "اتصل عند الوصول", order.DeliveryInstructions)

	_, items, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// The cart was cleared in the same transaction.
	remaining, err := cartService.Get(ctx, customerID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// The admin received an in-app new-order notification.
	notifications, err := notificationRepo.ListForUser(ctx, adminID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeOrder, notifications[0].Type)
}

func TestCheckoutValidationCollectsAllErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()

	checkoutService, cartService, _ := newCheckoutService(db)

	customerID := db.SeedUser(t, "محمد", "0551234567", model.RoleCustomer, true)
	require.NoError(t, cartService.Sync(ctx, customerID, "prod-1", "تمر", decimal.NewFromInt(50), 1))

	_, err := checkoutService.PlaceOrder(ctx, customerID, checkout.CheckoutInput{
		FullName:      "x",
		Phone:         "12",
		AddressID:     "not-a-uuid",
		ShiftID:       "",
		PaymentMethod: "BITCOIN",
		TermsAccepted: false,
	})

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 6)
}

func TestCartSyncIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()

	_, cartService, _ := newCheckoutService(db)
	customerID := db.SeedUser(t, "محمد", "0551234567", model.RoleCustomer, true)

	// Repeating the same sync leaves the cart unchanged.
	for i := 0; i < 3; i++ {
		require.NoError(t, cartService.Sync(ctx, customerID, "prod-1", "تمر سكري", decimal.NewFromInt(50), 4))
	}

	items, err := cartService.Get(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	// Sync is set-semantics, not increment.
	require.NoError(t, cartService.Sync(ctx, customerID, "prod-1", "تمر سكري", decimal.NewFromInt(50), 2))
	items, err = cartService.Get(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	// Zero removes the row.
	require.NoError(t, cartService.Sync(ctx, customerID, "prod-1", "تمر سكري", decimal.NewFromInt(50), 0))
	items, err = cartService.Get(ctx, customerID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderNumberUniqueUnderConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	ctx := context.Background()

	generator := ordernum.NewGenerator(db.Pool, zerolog.Nop())

	const n = 25
	numbers := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			numbers[i], errs[i] = generator.Next(ctx)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "duplicate order number: %s", numbers[i])
		seen[numbers[i]] = true
	}
}
