package dto

import "langleague/internal/http-api/models"

type RegisterRequest struct {
	Login       string `json:"login" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func UserFromModel(u *models.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Login: u.Login,
		Email: u.Email,
		Role:  u.Role,
	}
}
