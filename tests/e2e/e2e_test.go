//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"

	"github.com/DanielCanisOrtega/tienda-backend/internal/config"
	"github.com/DanielCanisOrtega/tienda-backend/internal/infra"
	"github.com/DanielCanisOrtega/tienda-backend/internal/router"
	"github.com/DanielCanisOrtega/tienda-backend/internal/worker"
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

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tienda_test"),
		tcPostgres.WithUsername("tienda"),
		tcPostgres.WithPassword("tienda"),
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
		ReceiptStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (name, username, password_hash, active, created_at, updated_at)
		VALUES ('Owner E2E', 'owner', ?, true, now(), now())`, string(hash)).Error)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "owner", "password": "secreto123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (e *testEnv) createStore(t *testing.T) string {
	t.Helper()
	resp := do(t, e.server, "POST", "/v1/stores",
		jsonBody(t, map[string]string{"name": "Tienda E2E", "address": "Calle 1 #2-3"}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var store struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &store)
	return store.ID
}

func (e *testEnv) createProduct(t *testing.T, storeID, name string, price float64, qty int) string {
	t.Helper()
	resp := do(t, e.server, "POST", "/v1/stores/"+storeID+"/products",
		jsonBody(t, map[string]any{
			"name": name, "category": "test", "unit_price": price, "quantity": qty,
		}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func (e *testEnv) openTill(t *testing.T, storeID string) string {
	t.Helper()
	resp := do(t, e.server, "POST", "/v1/stores/"+storeID+"/tills",
		jsonBody(t, map[string]any{"shift": "morning", "opening_balance": 100.0}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var till struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &till)
	return till.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)
	prodID := env.createProduct(t, storeID, "Gaseosa 500ml", 2.50, 20)
	env.openTill(t, storeID)

	saleResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/sales",
		jsonBody(t, map[string]any{
			"lines": []map[string]any{{"product_id": prodID, "quantity": 3}},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID    string `json:"id"`
		Total string `json:"total"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "7.5", sale.Total)

	// Stock decremented
	prodResp := do(t, env.server, "GET", "/v1/stores/"+storeID+"/products/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		QuantityOnHand int `json:"quantity_on_hand"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 17, prod.QuantityOnHand)

	// Sale appears in the list
	listResp := do(t, env.server, "GET", "/v1/stores/"+storeID+"/sales", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.EqualValues(t, 1, list.Total)
}

func TestE2E_TillExclusivity(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)
	tillID := env.openTill(t, storeID)

	// Second open on the same store conflicts
	conflictResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/tills",
		jsonBody(t, map[string]any{"shift": "night", "opening_balance": 50.0}), env.token)
	assert.Equal(t, http.StatusConflict, conflictResp.StatusCode)
	conflictResp.Body.Close()

	// Close, then a new session may open
	closeResp := do(t, env.server, "POST", "/v1/tills/"+tillID+"/close",
		jsonBody(t, map[string]any{"closing_balance": 180.0}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	closeResp.Body.Close()

	reopenResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/tills",
		jsonBody(t, map[string]any{"shift": "night", "opening_balance": 180.0}), env.token)
	assert.Equal(t, http.StatusCreated, reopenResp.StatusCode)
	reopenResp.Body.Close()

	// Closing twice fails
	doubleCloseResp := do(t, env.server, "POST", "/v1/tills/"+tillID+"/close",
		jsonBody(t, map[string]any{"closing_balance": 200.0}), env.token)
	assert.Equal(t, http.StatusBadRequest, doubleCloseResp.StatusCode)
	doubleCloseResp.Body.Close()
}

func TestE2E_InsufficientStockLeavesStateUntouched(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)
	cheapID := env.createProduct(t, storeID, "Chicle", 0.20, 100)
	scarceID := env.createProduct(t, storeID, "Vino reserva", 25.00, 2)
	env.openTill(t, storeID)

	// Second line exceeds stock — whole sale must fail
	saleResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/sales",
		jsonBody(t, map[string]any{
			"lines": []map[string]any{
				{"product_id": cheapID, "quantity": 10},
				{"product_id": scarceID, "quantity": 5},
			},
		}), env.token)
	assert.Equal(t, http.StatusBadRequest, saleResp.StatusCode)
	saleResp.Body.Close()

	// Both products keep their full stock — the first line rolled back too
	for id, want := range map[string]int{cheapID: 100, scarceID: 2} {
		resp := do(t, env.server, "GET", "/v1/stores/"+storeID+"/products/"+id, nil, env.token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var prod struct {
			QuantityOnHand int `json:"quantity_on_hand"`
		}
		decodeJSON(t, resp, &prod)
		assert.Equal(t, want, prod.QuantityOnHand)
	}

	// No sale stored
	listResp := do(t, env.server, "GET", "/v1/stores/"+storeID+"/sales", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.EqualValues(t, 0, list.Total)
}

func TestE2E_SaleWithoutOpenTill(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)
	prodID := env.createProduct(t, storeID, "Pan", 0.50, 10)

	saleResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/sales",
		jsonBody(t, map[string]any{
			"lines": []map[string]any{{"product_id": prodID, "quantity": 1}},
		}), env.token)
	assert.Equal(t, http.StatusBadRequest, saleResp.StatusCode)
	saleResp.Body.Close()
}

func TestE2E_ExpensesByCategory(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)
	env.openTill(t, storeID)

	for _, e := range []map[string]any{
		{"description": "hielo para nevera", "amount": 10.0, "category": "insumos"},
		{"description": "bolsas plasticas", "amount": 5.5, "category": "insumos"},
		{"description": "taxi reparto", "amount": 8.0, "category": "transporte"},
	} {
		resp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/expenses", jsonBody(t, e), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	sumResp := do(t, env.server, "GET", "/v1/stores/"+storeID+"/expenses/by-category", nil, env.token)
	require.Equal(t, http.StatusOK, sumResp.StatusCode)
	var totals []struct {
		Category string `json:"category"`
		Total    string `json:"total"`
	}
	decodeJSON(t, sumResp, &totals)
	require.Len(t, totals, 2)

	byCat := make(map[string]string)
	for _, ct := range totals {
		byCat[ct.Category] = ct.Total
	}
	assert.Equal(t, "15.5", byCat["insumos"])
	assert.Equal(t, "8", byCat["transporte"])
}

func TestE2E_PublicPriceCheck(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)

	resp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/products",
		jsonBody(t, map[string]any{
			"name": "Agua 600ml", "category": "bebidas",
			"unit_price": 1.20, "quantity": 40, "barcode": "7700123456789",
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// No token — the endpoint is public
	priceResp := do(t, env.server, "GET", "/v1/price/7700123456789", nil, "")
	require.Equal(t, http.StatusOK, priceResp.StatusCode)
	var price struct {
		Name      string `json:"name"`
		UnitPrice string `json:"unit_price"`
		Available int    `json:"available"`
	}
	decodeJSON(t, priceResp, &price)
	assert.Equal(t, "Agua 600ml", price.Name)
	assert.Equal(t, "1.2", price.UnitPrice)
	assert.Equal(t, 40, price.Available)
}

func TestE2E_ConcurrentTillOpen(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)

	// Both goroutines race the check-then-insert; the partial unique index
	// must let exactly one through.
	statuses := make(chan int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := json.Marshal(map[string]any{"shift": "morning", "opening_balance": 10.0})
			if err != nil {
				statuses <- 0
				return
			}
			req, err := http.NewRequest("POST", env.server.URL+"/v1/stores/"+storeID+"/tills", bytes.NewReader(body))
			if err != nil {
				statuses <- 0
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+env.token)
			resp, err := env.server.Client().Do(req)
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	var got []int
	for s := range statuses {
		got = append(got, s)
	}
	sort.Ints(got)
	assert.Equal(t, []int{http.StatusCreated, http.StatusConflict}, got)

	// Exactly one open till exists afterward
	listResp := do(t, env.server, "GET", "/v1/stores/"+storeID+"/tills", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var tills []struct {
		Status string `json:"status"`
	}
	decodeJSON(t, listResp, &tills)
	open := 0
	for _, till := range tills {
		if till.Status == "open" {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestE2E_DeleteStoreCascadesHistory(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)
	prodID := env.createProduct(t, storeID, "Cerveza lata", 1.80, 24)
	env.openTill(t, storeID)

	saleResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/sales",
		jsonBody(t, map[string]any{
			"lines": []map[string]any{{"product_id": prodID, "quantity": 6}},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	saleResp.Body.Close()

	expResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/expenses",
		jsonBody(t, map[string]any{
			"description": "cambio para la caja", "amount": 20.0, "category": "caja",
		}), env.token)
	require.Equal(t, http.StatusCreated, expResp.StatusCode)
	expResp.Body.Close()

	// Sales, lines, expenses, tills, products and movements all go with the store
	delResp := do(t, env.server, "DELETE", "/v1/stores/"+storeID, nil, env.token)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	getResp := do(t, env.server, "GET", "/v1/stores/"+storeID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}

func TestE2E_FieldValidationRejections(t *testing.T) {
	env := setupTestEnv(t)
	storeID := env.createStore(t)
	tillID := env.openTill(t, storeID)

	// Non-positive expense amount fails the gt=0 rule
	expResp := do(t, env.server, "POST", "/v1/stores/"+storeID+"/expenses",
		jsonBody(t, map[string]any{
			"description": "monto invalido", "amount": 0, "category": "otros",
		}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, expResp.StatusCode)
	expResp.Body.Close()

	// Closing without a balance fails the required rule
	closeResp := do(t, env.server, "POST", "/v1/tills/"+tillID+"/close",
		jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, closeResp.StatusCode)
	closeResp.Body.Close()

	// The till stayed open
	tillResp := do(t, env.server, "GET", "/v1/tills/"+tillID, nil, env.token)
	require.Equal(t, http.StatusOK, tillResp.StatusCode)
	var till struct {
		Status string `json:"status"`
	}
	decodeJSON(t, tillResp, &till)
	assert.Equal(t, "open", till.Status)
}
