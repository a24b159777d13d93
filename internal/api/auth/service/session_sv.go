package authService

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"EchoOS/internal/api/auth"
	contextPkg "EchoOS/pkg/context"
	"EchoOS/internal/entity"
	jwtPkg "EchoOS/pkg/jwt"
)

// Validate resolves a token to its live session. Expiry is absolute; an
// expired record is removed and reported, never silently renewed.
func (s *sessionDomainImpl) Validate(c context.Context, token string) (entity.Session, error) {
	requestID := contextPkg.GetRequestID(c)

	jti, username, err := jwtPkg.Parse(token)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Session token failed verification")
		return entity.Session{}, auth.ErrSessionNotFound
	}

	session, err := s.sessions.Get(jti)
	if err != nil {
		return entity.Session{}, err
	}

	if session.Username != username {
		// Token/store mismatch means a forged or stale token.
		return entity.Session{}, auth.ErrSessionNotFound
	}

	if session.ExpiredAt(s.now()) {
		if err := s.sessions.Delete(jti); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to remove expired session")
		}
		return entity.Session{}, auth.ErrSessionExpired
	}

	return session, nil
}

// Logout removes the session unconditionally; unknown tokens are a no-op.
func (s *sessionDomainImpl) Logout(c context.Context, token string) error {
	jti, _, err := jwtPkg.Parse(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(jti); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
		return err
	}
	return nil
}
