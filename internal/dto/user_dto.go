package dto

import "time"

type CreateUserRequest struct {
	UID         string `json:"uid" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=8"`
	AvatarURL   string `json:"photoURL,omitempty"`
}

type UserResponse struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	AvatarURL   string    `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GoogleLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
