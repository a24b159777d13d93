package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const SecretEnvKey = "SESSION_TOKEN_SECRET"

// Sign creates a signed session token. The jti binds the token to a record
// in the session store; the store stays authoritative for expiry.
func Sign(username string, jti string, expiredAt time.Time) (string, error) {
	secret := os.Getenv(SecretEnvKey)
	if secret == "" {
		return "", fmt.Errorf("%s not set", SecretEnvKey)
	}

	claims := jwt.MapClaims{
		"jti":      jti,
		"username": username,
		"exp":      expiredAt.Unix(),
	}

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := to.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign session token")
		return "", err
	}

	return token, nil
}

// Parse verifies the signature and returns the jti and username claims.
// Expiry is NOT enforced here; the session store decides liveness.
func Parse(token string) (jti string, username string, err error) {
	secret := os.Getenv(SecretEnvKey)
	if secret == "" {
		return "", "", fmt.Errorf("%s not set", SecretEnvKey)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}

	jti, _ = claims["jti"].(string)
	username, _ = claims["username"].(string)
	if jti == "" || username == "" {
		return "", "", errors.New("token claims are missing required fields")
	}

	return jti, username, nil
}

// TokenFromHeader extracts the bearer token from the Authorization header.
func TokenFromHeader(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", errors.New("empty Authorization header")
	}

	parts := strings.Split(header, "Bearer ")
	if len(parts) != 2 {
		return "", errors.New("invalid Authorization format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty token")
	}

	return token, nil
}
