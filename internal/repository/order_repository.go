package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"rakort/orders-api/internal/apperr"
	"rakort/orders-api/internal/model"
)

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order and returns the row including the generated id.
func (r *OrderRepository) Create(ctx context.Context, userID int, item string, amount float64) (*model.Order, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var o model.Order
	err := r.db.executor(ctx).QueryRow(ctx,
		"INSERT INTO orders (user_id, item, amount) VALUES ($1, $2, $3) RETURNING id, user_id, item, amount",
		userID, item, amount,
	).Scan(&o.ID, &o.UserID, &o.Item, &o.Amount)
	if err != nil {
		return nil, apperr.FromPostgres(err)
	}
	return &o, nil
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*model.Order, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var o model.Order
	err := r.db.executor(ctx).QueryRow(ctx,
		"SELECT id, user_id, item, amount FROM orders WHERE id = $1", id,
	).Scan(&o.ID, &o.UserID, &o.Item, &o.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("order not found")
		}
		return nil, apperr.FromPostgres(err)
	}
	return &o, nil
}

// ListByUser returns a user's orders in insertion order. A user with no
// orders yields an empty slice, not an error.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]model.Order, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	rows, err := r.db.executor(ctx).Query(ctx,
		"SELECT id, user_id, item, amount FROM orders WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, apperr.FromPostgres(err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Item, &o.Amount); err != nil {
			return nil, apperr.FromPostgres(err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPostgres(err)
	}
	return orders, nil
}

// Delete removes an order and returns the deleted row.
func (r *OrderRepository) Delete(ctx context.Context, id int) (*model.Order, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var o model.Order
	err := r.db.executor(ctx).QueryRow(ctx,
		"DELETE FROM orders WHERE id = $1 RETURNING id, user_id, item, amount", id,
	).Scan(&o.ID, &o.UserID, &o.Item, &o.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("order not found")
		}
		return nil, apperr.FromPostgres(err)
	}
	return &o, nil
}
