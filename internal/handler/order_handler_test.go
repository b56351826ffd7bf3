package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rakort/orders-api/internal/handler"
	"rakort/orders-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrder(t *testing.T, h *handler.Handler, userID int, item string, amount float64) model.Order {
	t.Helper()

	w := doJSON(t, h, http.MethodPost, "/orders/", map[string]any{"user_id": userID, "item": item, "amount": amount})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var order model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
	return order
}

func TestCreateOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	user := createUser(t, h, "Alice", "a@x.com")

	order := createOrder(t, h, user.ID, "book", 9.99)
	assert.Positive(t, order.ID)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, "book", order.Item)
	assert.Equal(t, 9.99, order.Amount)

	// The new order shows up in the user's list exactly once
	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d/orders", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order, orders[0])
}

func TestCreateOrder_UserNotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	w := doJSON(t, h, http.MethodPost, "/orders/", map[string]any{"user_id": 999999, "item": "book", "amount": 9.99})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No partial row
	var count int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM orders").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestCreateOrder_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	user := createUser(t, h, "Alice", "a@x.com")

	w := doJSON(t, h, http.MethodPost, "/orders/", map[string]any{"user_id": user.ID, "item": "", "amount": 9.99})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/orders/", map[string]any{"user_id": user.ID, "item": "book", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/orders/", map[string]any{"user_id": user.ID, "item": "book", "amount": -1.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM orders").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestGetOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	user := createUser(t, h, "Alice", "a@x.com")
	created := createOrder(t, h, user.ID, "Pen", 2.5)

	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var order model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
	assert.Equal(t, created, order)
}

func TestGetOrder_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	w := doJSON(t, h, http.MethodGet, "/orders/999999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrders_EmptyForExistingUser(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	user := createUser(t, h, "Alice", "a@x.com")

	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d/orders", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Empty list, not null and not an error
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListOrders_UserNotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	w := doJSON(t, h, http.MethodGet, "/users/999999/orders", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrders_InsertionOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	user := createUser(t, h, "Alice", "a@x.com")
	first := createOrder(t, h, user.ID, "Pen", 2.5)
	second := createOrder(t, h, user.ID, "Book", 9.99)

	// Another user's orders must not leak in
	other := createUser(t, h, "Bob", "b@x.com")
	createOrder(t, h, other.ID, "Mug", 4.0)

	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d/orders", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
	require.Len(t, orders, 2)
	assert.Equal(t, first, orders[0])
	assert.Equal(t, second, orders[1])
}

func TestDeleteOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	user := createUser(t, h, "Alice", "a@x.com")
	created := createOrder(t, h, user.ID, "Pen", 2.5)

	w := doJSON(t, h, http.MethodDelete, fmt.Sprintf("/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var deleted model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&deleted))
	assert.Equal(t, created, deleted)

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The user survives their order
	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	w := doJSON(t, h, http.MethodDelete, "/orders/999999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrder_Concurrent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := newTestHandler(pool)

	user := createUser(t, h, "Alice", "a@x.com")

	concurrentRequests := 20
	codes := make(chan int, concurrentRequests)

	for i := 0; i < concurrentRequests; i++ {
		go func() {
			reqBody, _ := json.Marshal(map[string]any{"user_id": user.ID, "item": "Pen", "amount": 2.5})
			req := httptest.NewRequest(http.MethodPost, "/orders/", bytes.NewBuffer(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)
			codes <- w.Code
		}()
	}

	for i := 0; i < concurrentRequests; i++ {
		assert.Equal(t, http.StatusCreated, <-codes)
	}

	var count int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM orders").Scan(&count))
	assert.Equal(t, concurrentRequests, count)
}
