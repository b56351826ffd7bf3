package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"rakort/orders-api/internal/apperr"
	"rakort/orders-api/internal/model"
	"rakort/orders-api/internal/repository"
	"rakort/orders-api/internal/validation"
)

type OrderService struct {
	db     *repository.DB
	users  *repository.UserRepository
	orders *repository.OrderRepository
}

func NewOrderService(db *repository.DB, users *repository.UserRepository, orders *repository.OrderRepository) *OrderService {
	return &OrderService{db: db, users: users, orders: orders}
}

// Create checks the user and inserts the order in one transaction so a
// concurrent user deletion cannot leave a dangling order.
func (s *OrderService) Create(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var order *model.Order
	err := s.db.RunAtomic(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsForShare(ctx, req.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NewNotFound("user not found")
		}

		order, err = s.orders.Create(ctx, req.UserID, req.Item, req.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id int) (*model.Order, error) {
	return s.orders.Get(ctx, id)
}

// ListForUser returns the user's orders, empty if they have none, and a
// not-found error if the user itself is absent. The existence check and
// the fetch run concurrently.
func (s *OrderService) ListForUser(ctx context.Context, userID int) ([]model.Order, error) {
	g, ctx := errgroup.WithContext(ctx)

	var exists bool
	var orders []model.Order

	g.Go(func() error {
		var err error
		exists, err = s.users.Exists(ctx, userID)
		return err
	})

	g.Go(func() error {
		var err error
		orders, err = s.orders.ListByUser(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NewNotFound("user not found")
	}
	return orders, nil
}

func (s *OrderService) Delete(ctx context.Context, id int) (*model.Order, error) {
	return s.orders.Delete(ctx, id)
}
