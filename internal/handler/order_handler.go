package handler

import (
	"encoding/json"
	"net/http"

	"rakort/orders-api/internal/apperr"
	"rakort/orders-api/internal/httputil"
	"rakort/orders-api/internal/model"
	"rakort/orders-api/internal/service"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, apperr.NewInvalid("invalid request body"))
		return
	}

	order, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, order)
}

// ListForUser serves GET /users/{id}/orders. An existing user with no
// orders gets an empty list, a missing user gets a 404.
func (h *OrderHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	orders, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	order, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, order)
}
