package dto

import "tennis-analyzer/internal/domain"

// UserRequest is the body of POST /api/users.
// @Description User creation request
type UserRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cret"`
}

// UserResponse never carries the password.
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}
