package handler

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"rakort/orders-api/internal/service"
)

type Handler struct {
	router *chi.Mux
}

func NewHandler(log zerolog.Logger, users *service.UserService, orders *service.OrderService) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)

	compressor := middleware.NewCompressor(5, "application/json")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	router.Use(compressor.Handler)

	h := &Handler{
		router: router,
	}

	h.registerRoutes(NewUserHandler(users), NewOrderHandler(orders))
	return h
}

func (h *Handler) registerRoutes(users *UserHandler, orders *OrderHandler) {
	h.router.Get("/health", h.HealthCheck)

	h.router.Post("/users/", users.Create)
	h.router.Get("/users/{id}", users.Get)
	h.router.Put("/users/{id}", users.Update)
	h.router.Delete("/users/{id}", users.Delete)
	h.router.Get("/users/{id}/orders", orders.ListForUser)

	h.router.Post("/orders/", orders.Create)
	h.router.Get("/orders/{id}", orders.Get)
	h.router.Delete("/orders/{id}", orders.Delete)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
