package auth

import "EchoOS/internal/entity"

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64,alphanum"`
	// Password is only consulted in degraded mode (extractor down) or when
	// no audio sample is attached.
	Password string `json:"password" validate:"omitempty,min=8,max=64"`
}

type RegisterUserResponse struct {
	Username string          `json:"username"`
	Mode     entity.AuthMode `json:"mode"`
}

type PasswordLoginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	Username  string          `json:"username"`
	Mode      entity.AuthMode `json:"mode"`
	ExpiresAt int64           `json:"expires_at"`
	// Score is the best cosine similarity for voice logins.
	Score float64 `json:"score,omitempty"`
}

type SessionResponse struct {
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}
