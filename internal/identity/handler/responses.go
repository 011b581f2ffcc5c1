package handler

import (
	"darum/internal/identity/models"
	"darum/internal/identity/service"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string   `json:"token"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// UserResponse is the cross-service user representation. It never carries the
// password hash.
type UserResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

func authResponse(res service.AuthResult) AuthResponse {
	return AuthResponse{
		Token: res.Token,
		Email: res.Email,
		Roles: roleTags(res),
	}
}

func roleTags(res service.AuthResult) []string {
	tags := make([]string, len(res.Roles))
	for i, r := range res.Roles {
		tags[i] = string(r)
	}
	return tags
}

func userResponse(user models.User) UserResponse {
	tags := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		tags[i] = string(r)
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     tags,
	}
}
