package service

import (
	"context"

	"rakort/orders-api/internal/model"
	"rakort/orders-api/internal/repository"
	"rakort/orders-api/internal/validation"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.users.Create(ctx, req.Name, req.Email)
}

func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	return s.users.Get(ctx, id)
}

// Update applies only the fields present in req; absent fields keep
// their stored values.
func (s *UserService) Update(ctx context.Context, id int, req model.UpdateUserRequest) (*model.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, id, req.Name, req.Email)
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.users.Delete(ctx, id)
}
