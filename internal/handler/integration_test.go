//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/delmon-pos/api/internal/config"
	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/router"
	"github.com/delmon-pos/api/internal/ws"
)

// TestIntegrationFlow exercises the full POS lifecycle against a real
// PostgreSQL database: seed staff, build a menu, check out an order,
// walk it through the kitchen board and settle the cash bill.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	pgContainer, connStr, cleanup := startPostgresContainer(t, ctx)
	defer cleanup()

	if err := database.Migrate(connStr); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	cfg := &config.Config{
		Port:      "8081",
		JWTSecret: "integration-test-secret",
	}
	queries := database.New(pool)
	hub := ws.NewHub()
	// NOTE: hub.Run() goroutine leaks on test exit — Hub has no shutdown
	// mechanism. Acceptable for tests.
	go hub.Run()

	r := router.New(cfg, queries, pool, hub)
	server := httptest.NewServer(r)
	defer server.Close()

	// --- 1. Seed a manager and a cashier (manual DB insert to bootstrap) ---
	insertManagerRow(t, ctx, pool)
	cashierID := insertCashierRow(t, ctx, pool)

	// --- 2. Manager logs in with email + password ---
	managerToken := loginEmail(t, server, "manager@delmon.local", "password123")

	// --- 3. Manager builds the menu ---
	machboos := createMenuItem(t, server, managerToken, "Chicken Machboos", "4.50", "Mains")
	karak := createMenuItem(t, server, managerToken, "Karak Tea", "0.50", "Drinks")
	machboosID := int64(machboos["menu_id"].(float64))
	karakID := int64(karak["menu_id"].(float64))

	// --- 4. Cashier logs in with PIN ---
	cashierToken := loginPin(t, server, "2345")

	// --- 5. Cashier checks out a cash order: 2x machboos + 1x karak ---
	checkoutResp := httpPostJSON(t, server, "/checkout", map[string]interface{}{
		"customer_name":  "Ali Hasan",
		"customer_phone": "33221100",
		"payment_method": "Cash",
		"employee_id":    cashierID,
		"items": []map[string]interface{}{
			{"menu_id": machboosID, "qty": 2},
			{"menu_id": karakID, "qty": 1},
		},
	}, cashierToken)

	if got := checkoutResp["total_price"].(string); got != "9.50" {
		t.Fatalf("order total_price: got %s, want 9.50", got)
	}
	if got := checkoutResp["bill_status"].(string); got != "Pending" {
		t.Fatalf("cash bill status: got %s, want Pending", got)
	}
	if got := checkoutResp["kitchen_status"].(string); got != "Received" {
		t.Fatalf("kitchen status after checkout: got %s, want Received", got)
	}
	orderID := int64(checkoutResp["order_id"].(float64))
	billID := int64(checkoutResp["bill_id"].(float64))

	// --- 6. The order shows up on the kitchen board ---
	active := httpGetJSONList(t, server, "/kitchen/orders", cashierToken)
	if len(active) != 1 {
		t.Fatalf("active kitchen orders: got %d, want 1", len(active))
	}
	if got := active[0]["items"].(string); got != "Chicken Machboos (x2), Karak Tea (x1)" {
		t.Fatalf("kitchen items summary: got %q", got)
	}

	// --- 7. Walk the order Received -> Cooking -> Completed ---
	adv := httpPostJSON(t, server, fmt.Sprintf("/kitchen/orders/%d/advance", orderID), nil, cashierToken)
	if got := adv["kitchen_status"].(string); got != "Cooking" {
		t.Fatalf("first advance: got %s, want Cooking", got)
	}
	adv = httpPostJSON(t, server, fmt.Sprintf("/kitchen/orders/%d/advance", orderID), nil, cashierToken)
	if got := adv["kitchen_status"].(string); got != "Completed" {
		t.Fatalf("second advance: got %s, want Completed", got)
	}

	// A third advance must be rejected: Completed is terminal.
	status := httpPostStatus(t, server, fmt.Sprintf("/kitchen/orders/%d/advance", orderID), nil, cashierToken)
	if status != http.StatusConflict {
		t.Fatalf("advance past Completed: got status %d, want 409", status)
	}

	completed := httpGetJSONList(t, server, "/kitchen/orders/completed", cashierToken)
	if len(completed) != 1 {
		t.Fatalf("completed kitchen orders: got %d, want 1", len(completed))
	}

	// --- 8. Manager sees the pending cash bill and confirms it ---
	pending := httpGetJSONList(t, server, "/bills/pending", managerToken)
	if len(pending) != 1 {
		t.Fatalf("pending bills: got %d, want 1", len(pending))
	}

	confirm := httpPostJSON(t, server, fmt.Sprintf("/bills/%d/confirm", billID), nil, managerToken)
	if got := confirm["status"].(string); got != "Paid" {
		t.Fatalf("bill status after confirm: got %s, want Paid", got)
	}

	// Confirming again is a no-op, not an error.
	confirm = httpPostJSON(t, server, fmt.Sprintf("/bills/%d/confirm", billID), nil, managerToken)
	if got := confirm["status"].(string); got != "Paid" {
		t.Fatalf("bill status after re-confirm: got %s, want Paid", got)
	}

	// Pending bills must not be reachable for cashiers.
	status = httpGetStatus(t, server, "/bills/pending", cashierToken)
	if status != http.StatusForbidden {
		t.Fatalf("cashier reading pending bills: got status %d, want 403", status)
	}

	// --- 9. Dashboard reflects the day ---
	summary := httpGetJSON(t, server, "/dashboard/summary", managerToken)
	if got := summary["orders_today"].(float64); got != 1 {
		t.Fatalf("orders_today: got %v, want 1", got)
	}
	if got := summary["revenue_today"].(string); got != "9.50" {
		t.Fatalf("revenue_today: got %s, want 9.50", got)
	}
	if got := summary["pending_bills"].(float64); got != 0 {
		t.Fatalf("pending_bills: got %v, want 0", got)
	}

	t.Logf("Integration test passed: container=%s, order=%d, bill=%d",
		pgContainer.GetContainerID(), orderID, billID)
}

// --- Setup helpers ---

func startPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}

	return pgContainer, connStr, cleanup
}

func insertManagerRow(t *testing.T, ctx context.Context, pool *pgxpool.Pool) int64 {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	var id int64
	err = pool.QueryRow(ctx,
		`INSERT INTO employees (name, role, email, hashed_password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING employee_id`,
		"Delmon Manager", "MANAGER", "manager@delmon.local", string(hashed),
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert manager: %v", err)
	}
	return id
}

func insertCashierRow(t *testing.T, ctx context.Context, pool *pgxpool.Pool) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(ctx,
		`INSERT INTO employees (name, role, pin)
		 VALUES ($1, $2, $3)
		 RETURNING employee_id`,
		"Front Cashier", "CASHIER", "2345",
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert cashier: %v", err)
	}
	return id
}

// --- API call helpers ---

func loginEmail(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()
	resp := httpPostJSON(t, server, "/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	}, "")
	token, ok := resp["access_token"].(string)
	if !ok || token == "" {
		t.Fatalf("login failed: no access_token in response: %+v", resp)
	}
	return token
}

func loginPin(t *testing.T, server *httptest.Server, pin string) string {
	t.Helper()
	resp := httpPostJSON(t, server, "/auth/pin-login", map[string]interface{}{"pin": pin}, "")
	token, ok := resp["access_token"].(string)
	if !ok || token == "" {
		t.Fatalf("pin login failed: no access_token in response: %+v", resp)
	}
	return token
}

func createMenuItem(t *testing.T, server *httptest.Server, token, name, price, category string) map[string]interface{} {
	t.Helper()
	return httpPostJSON(t, server, "/menu", map[string]interface{}{
		"name":     name,
		"price":    price,
		"category": category,
		"status":   "Available",
	}, token)
}

// --- HTTP helpers ---

func httpPostJSON(t *testing.T, server *httptest.Server, path string, body map[string]interface{}, token string) map[string]interface{} {
	t.Helper()
	resp := doRequest(t, server, "POST", path, body, token)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("POST %s: status %d, body: %v", path, resp.StatusCode, errResp)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func httpPostStatus(t *testing.T, server *httptest.Server, path string, body map[string]interface{}, token string) int {
	t.Helper()
	resp := doRequest(t, server, "POST", path, body, token)
	defer resp.Body.Close()
	return resp.StatusCode
}

func httpGetJSON(t *testing.T, server *httptest.Server, path, token string) map[string]interface{} {
	t.Helper()
	resp := doRequest(t, server, "GET", path, nil, token)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("GET %s: status %d, body: %v", path, resp.StatusCode, errResp)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func httpGetJSONList(t *testing.T, server *httptest.Server, path, token string) []map[string]interface{} {
	t.Helper()
	resp := doRequest(t, server, "GET", path, nil, token)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("GET %s: status %d, body: %v", path, resp.StatusCode, errResp)
	}

	var result []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func httpGetStatus(t *testing.T, server *httptest.Server, path, token string) int {
	t.Helper()
	resp := doRequest(t, server, "GET", path, nil, token)
	defer resp.Body.Close()
	return resp.StatusCode
}

func doRequest(t *testing.T, server *httptest.Server, method, path string, body map[string]interface{}, token string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}
