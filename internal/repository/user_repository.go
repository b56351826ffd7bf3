package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"rakort/orders-api/internal/apperr"
	"rakort/orders-api/internal/model"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and returns the row including the generated id.
func (r *UserRepository) Create(ctx context.Context, name, email string) (*model.User, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var u model.User
	err := r.db.executor(ctx).QueryRow(ctx,
		"INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id, name, email",
		name, email,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		return nil, apperr.FromPostgres(err)
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*model.User, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var u model.User
	err := r.db.executor(ctx).QueryRow(ctx,
		"SELECT id, name, email FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("user not found")
		}
		return nil, apperr.FromPostgres(err)
	}
	return &u, nil
}

// Update applies only the non-nil fields and returns the updated row.
func (r *UserRepository) Update(ctx context.Context, id int, name, email *string) (*model.User, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var u model.User
	err := r.db.executor(ctx).QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name), email = COALESCE($3, email)
		 WHERE id = $1
		 RETURNING id, name, email`,
		id, name, email,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("user not found")
		}
		return nil, apperr.FromPostgres(err)
	}
	return &u, nil
}

// Delete removes a user. Dependent orders are removed by the store via
// ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	tag, err := r.db.executor(ctx).Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return apperr.FromPostgres(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("user not found")
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id int) (bool, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var exists bool
	err := r.db.executor(ctx).QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return false, apperr.FromPostgres(err)
	}
	return exists, nil
}

// ExistsForShare checks the user row with a shared lock so it cannot be
// deleted while the surrounding transaction is still inserting orders.
func (r *UserRepository) ExistsForShare(ctx context.Context, id int) (bool, error) {
	ctx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var found int
	err := r.db.executor(ctx).QueryRow(ctx,
		"SELECT id FROM users WHERE id = $1 FOR SHARE", id,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperr.FromPostgres(err)
	}
	return true, nil
}
