package model

// User is a stored user row.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is a stored order row. Every order belongs to exactly one user.
type Order struct {
	ID     int     `json:"id"`
	UserID int     `json:"user_id"`
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserRequest carries a partial update. Nil fields are left
// unchanged in the stored row.
type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=1"`
	Email *string `json:"email" validate:"omitnil,email"`
}

type CreateOrderRequest struct {
	UserID int     `json:"user_id" validate:"required,gt=0"`
	Item   string  `json:"item" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
