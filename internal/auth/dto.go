// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// LoginRequest accepts a username or an email in Log.
type LoginRequest struct {
	Log      string `json:"log"      validate:"required,max=255"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User    UserResponse `json:"user"`
	Access  IssuedToken  `json:"access"`
	Refresh IssuedToken  `json:"refresh"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func newAuthResponse(u *UserInfo, tokens *AuthTokens) AuthResponse {
	return AuthResponse{
		User:    ToUserResponse(u),
		Access:  tokens.Access,
		Refresh: tokens.Refresh,
	}
}
