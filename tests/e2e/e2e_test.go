//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/config"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/infra"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("taphoa_test"),
		tcPostgres.WithUsername("taphoa"),
		tcPostgres.WithPassword("taphoa"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		RateLimitPerMin:    1000,
		ExpiryAlertDays:    7,
	}

	// NewDatabase applies the embedded SQL migrations.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (name, email, password_hash, role)
		VALUES ('Admin E2E', 'admin@e2e.test', ?, 'admin')`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "e2e-password"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) createProduct(t *testing.T, name string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/catalog/products",
		jsonBody(t, map[string]any{"name": name, "unit": "pc"}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func (env *testEnv) stockIn(t *testing.T, productID, qty, cost string, expiry *string) string {
	t.Helper()
	body := map[string]any{"product_id": productID, "quantity": qty, "cost_price": cost}
	if expiry != nil {
		body["expiry_date"] = *expiry
	}
	resp := do(t, env.server, "POST", "/inventory/stock-in", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var batch struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &batch)
	return batch.ID
}

func (env *testEnv) createCustomer(t *testing.T, name string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/debt/customers",
		jsonBody(t, map[string]any{"name": name}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &c)
	return c.ID
}

func (env *testEnv) customerDebt(t *testing.T, customerID string) string {
	t.Helper()
	resp := do(t, env.server, "GET", "/debt/customers/"+customerID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c struct {
		CurrentDebt string `json:"current_debt"`
	}
	decodeJSON(t, resp, &c)
	return c.CurrentDebt
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full credit cycle: checkout on debt, partial payment, overpayment rejected.
func TestE2E_DebtCycle(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "Instant noodles")
	env.stockIn(t, productID, "100", "3.5", nil)
	customerID := env.createCustomer(t, "Nguyen Van A")

	checkoutResp := do(t, env.server, "POST", "/pos/checkout",
		jsonBody(t, map[string]any{
			"customer_id":    customerID,
			"payment_method": "debt",
			"items": []map[string]any{
				{"product_id": productID, "quantity": "10", "unit_price": "5"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, checkoutResp.StatusCode)
	var checkout struct {
		Sale struct {
			InvoiceNumber string `json:"invoice_number"`
			PaymentStatus string `json:"payment_status"`
			FinalAmount   string `json:"final_amount"`
		} `json:"sale"`
	}
	decodeJSON(t, checkoutResp, &checkout)
	assert.Equal(t, "INV-000001", checkout.Sale.InvoiceNumber)
	assert.Equal(t, "unpaid", checkout.Sale.PaymentStatus)
	assert.Equal(t, "50", checkout.Sale.FinalAmount)
	assert.Equal(t, "50", env.customerDebt(t, customerID))

	// Overpayment must be rejected by the balance guard.
	overpay := do(t, env.server, "POST", "/debt/payments",
		jsonBody(t, map[string]any{
			"customer_id": customerID, "amount": "60", "payment_method": "cash",
		}), env.token)
	assert.Equal(t, http.StatusBadRequest, overpay.StatusCode)
	assert.Equal(t, "50", env.customerDebt(t, customerID))

	// Partial payment settles part of the balance.
	pay := do(t, env.server, "POST", "/debt/payments",
		jsonBody(t, map[string]any{
			"customer_id": customerID, "amount": "30", "payment_method": "cash",
		}), env.token)
	require.Equal(t, http.StatusCreated, pay.StatusCode)
	assert.Equal(t, "20", env.customerDebt(t, customerID))
}

// The allocator must draw from the batch expiring first and leave never-
// expiring batches for last.
func TestE2E_FEFOAllocation(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "Yogurt")
	late := "2030-12-31"
	soon := "2026-09-15"
	env.stockIn(t, productID, "50", "4", &late)
	soonBatch := env.stockIn(t, productID, "50", "4.5", &soon)
	env.stockIn(t, productID, "50", "3", nil)

	checkoutResp := do(t, env.server, "POST", "/pos/checkout",
		jsonBody(t, map[string]any{
			"payment_method": "cash",
			"items": []map[string]any{
				{"product_id": productID, "quantity": "5", "unit_price": "8"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, checkoutResp.StatusCode)
	var checkout struct {
		Items []struct {
			BatchID   string `json:"batch_id"`
			CostPrice string `json:"cost_price"`
		} `json:"items"`
	}
	decodeJSON(t, checkoutResp, &checkout)
	require.Len(t, checkout.Items, 1)
	assert.Equal(t, soonBatch, checkout.Items[0].BatchID)
	assert.Equal(t, "4.5", checkout.Items[0].CostPrice)
}

// Locking is one-way; refunds force the lock and reverse nothing.
func TestE2E_LockAndRefund(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "Soap")
	env.stockIn(t, productID, "20", "2", nil)

	checkoutResp := do(t, env.server, "POST", "/pos/checkout",
		jsonBody(t, map[string]any{
			"payment_method": "cash",
			"items": []map[string]any{
				{"product_id": productID, "quantity": "1", "unit_price": "4"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, checkoutResp.StatusCode)
	var checkout struct {
		Sale struct {
			ID string `json:"id"`
		} `json:"sale"`
	}
	decodeJSON(t, checkoutResp, &checkout)
	saleID := checkout.Sale.ID

	lockResp := do(t, env.server, "POST", "/pos/sales/"+saleID+"/lock", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusOK, lockResp.StatusCode)

	// Locking is one-way.
	relockResp := do(t, env.server, "POST", "/pos/sales/"+saleID+"/lock", jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusBadRequest, relockResp.StatusCode)

	// A locked sale can still be refunded.
	refundResp := do(t, env.server, "POST", "/pos/sales/"+saleID+"/refund",
		jsonBody(t, map[string]any{"reason": "customer returned item"}), env.token)
	require.Equal(t, http.StatusOK, refundResp.StatusCode)
	var refunded struct {
		IsLocked   bool    `json:"is_locked"`
		RefundedAt *string `json:"refunded_at"`
	}
	decodeJSON(t, refundResp, &refunded)
	assert.True(t, refunded.IsLocked)
	assert.NotNil(t, refunded.RefundedAt)

	// Refunding twice is rejected.
	again := do(t, env.server, "POST", "/pos/sales/"+saleID+"/refund",
		jsonBody(t, map[string]any{"reason": "duplicate"}), env.token)
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
}

// Insufficient stock rolls the whole checkout back, batches untouched.
func TestE2E_InsufficientStockRollsBack(t *testing.T) {
	env := setupTestEnv(t)

	okProduct := env.createProduct(t, "Candy")
	env.stockIn(t, okProduct, "100", "1", nil)
	lowProduct := env.createProduct(t, "Rare tea")
	env.stockIn(t, lowProduct, "2", "20", nil)

	checkoutResp := do(t, env.server, "POST", "/pos/checkout",
		jsonBody(t, map[string]any{
			"payment_method": "cash",
			"items": []map[string]any{
				{"product_id": okProduct, "quantity": "10", "unit_price": "2"},
				{"product_id": lowProduct, "quantity": "5", "unit_price": "30"},
			},
		}), env.token)
	assert.Equal(t, http.StatusBadRequest, checkoutResp.StatusCode)

	// The first line's decrement must have been rolled back with the sale.
	listResp := do(t, env.server, "GET", "/pos/sales", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var sales []struct {
		ID string `json:"id"`
	}
	decodeJSON(t, listResp, &sales)
	assert.Empty(t, sales)
}
