package entity

import "time"

type AuthMode string

const (
	// AuthModeVoice means the profile stores a voice embedding.
	AuthModeVoice AuthMode = "voice"
	// AuthModePassword is the degraded enrollment used when the embedding
	// extractor is unavailable.
	AuthModePassword AuthMode = "password"
)

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Embedding    []float64 `db:"-"`
	PasswordHash string    `db:"password_hash"`
	AuthMode     AuthMode  `db:"auth_mode"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserLoginData is what protected handlers see after the session
// middleware has resolved the token.
type UserLoginData struct {
	Username  string
	SessionID string
}
