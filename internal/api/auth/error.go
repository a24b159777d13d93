package auth

import (
	"EchoOS/pkg/response"
	"net/http"
)

var (
	ErrDuplicateUser        = response.NewKindError(http.StatusConflict, "duplicate_user", "username already registered")
	ErrInsufficientAudio    = response.NewKindError(http.StatusUnprocessableEntity, "insufficient_audio", "audio sample too short or unreadable")
	ErrAuthenticationFailed = response.NewKindError(http.StatusUnauthorized, "authentication_failed", "voice did not match any enrolled user")
	ErrSessionExpired       = response.NewKindError(http.StatusUnauthorized, "session_expired", "session expired, authenticate again")
	ErrSessionNotFound      = response.NewKindError(http.StatusUnauthorized, "session_not_found", "session token invalid or unknown")
	ErrUserNotFound         = response.NewKindError(http.StatusNotFound, "user_not_found", "user not found")
	ErrPasswordRequired     = response.NewKindError(http.StatusBadRequest, "password_required", "extractor unavailable, password enrollment required")
	ErrInvalidCredentials   = response.NewKindError(http.StatusUnauthorized, "authentication_failed", "username or password is wrong")
)
