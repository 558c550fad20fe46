package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkout-wizard/internal/address"
	"checkout-wizard/internal/cart"
	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/config"
	"checkout-wizard/internal/coupon"
	"checkout-wizard/internal/database"
	"checkout-wizard/internal/events"
	"checkout-wizard/internal/handler"
	"checkout-wizard/internal/model"
	"checkout-wizard/internal/payment"
	"checkout-wizard/internal/router"
	"checkout-wizard/internal/service"
	"checkout-wizard/internal/shipping"
	"checkout-wizard/internal/validation"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAPIKey is the key every test server accepts.
const TestAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, migrates it and returns a
// connection pool. The migrations seed the demo cart.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
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

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	if err := database.Migrate(connStr, logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	pool, err := database.NewPoolFromURL(ctx, connStr, config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
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

// CleanupOrders removes every recorded order.
func CleanupOrders(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// ViaCEP answers lookups for the postal codes in addresses (digits only) and
// reports every other code as unknown, the way the real service does.
func ViaCEP(t *testing.T, addresses map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zip := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/ws/"), "/json/")
		w.Header().Set("Content-Type", "application/json")
		body, ok := addresses[zip]
		if !ok {
			body = `{"erro": true}`
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// PaulistaZip is the postal code the default ViaCEP fake knows.
const PaulistaZip = "01310100"

// DefaultAddresses is the ViaCEP fake's address book.
func DefaultAddresses() map[string]string {
	return map[string]string{
		PaulistaZip: `{"cep":"01310-100","logradouro":"Avenida Paulista","complemento":"","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`,
	}
}

// ServerConfig selects the collaborators of a test server. Zero values fall
// back to the demo cart, an approving payment simulator and built-in coupons.
type ServerConfig struct {
	Carts       cart.Source
	Processor   payment.Processor
	DeclineRate float64
	Options     *service.Options
	Policy      *checkout.Policy
}

// NewTestServer wires the full API the way cmd/api does, with a ViaCEP fake
// cached in miniredis.
func NewTestServer(t *testing.T, cfg ServerConfig) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	policy := checkout.DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	opts := service.Options{
		CouponEnabled:   true,
		ShippingEnabled: true,
		DefaultCartID:   "demo",
		DefaultLocale:   "pt",
		PaymentMethods:  model.PaymentMethods,
	}
	if cfg.Options != nil {
		opts = *cfg.Options
	}

	carts := cfg.Carts
	if carts == nil {
		carts = cart.NewStaticSource(cart.DemoProducts())
	}

	processor := cfg.Processor
	if processor == nil {
		processor = payment.NewSimulatedProcessor(payment.SimulatorConfig{DeclineRate: cfg.DeclineRate}, logger)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	viaCEP := ViaCEP(t, DefaultAddresses())
	addresses := address.NewCachedLookup(
		address.NewViaCEPClient(address.ViaCEPConfig{BaseURL: viaCEP.URL, Timeout: 2 * time.Second}, logger),
		rdb, time.Hour, logger,
	)

	store := service.NewMemorySessionStore(policy, 30*time.Minute, logger)

	checkoutService := service.NewCheckoutService(service.Dependencies{
		Store:    store,
		Cart:     carts,
		Address:  addresses,
		Shipping: shipping.NewStaticQuoter(shipping.DefaultOptions(), logger),
		Coupons:  coupon.NewResolver(coupon.NewStaticCatalogue(coupon.BuiltinCoupons(), logger), true, logger),
		Validator: validation.New(validation.Options{
			ShippingEnabled: opts.ShippingEnabled,
			PaymentMethods:  opts.PaymentMethods,
			Policy:          policy,
		}),
	}, opts, logger)
	orderService := service.NewOrderService(store, carts, processor, events.NewNoopPublisher(logger), opts, logger)

	return router.New(
		handler.NewCheckoutHandler(checkoutService, logger),
		handler.NewOrderHandler(orderService, logger),
		TestAPIKey,
		logger,
	)
}
