package authService

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"EchoOS/internal/api/auth"
	contextPkg "EchoOS/pkg/context"
	"EchoOS/internal/entity"
	jwtPkg "EchoOS/pkg/jwt"
	"EchoOS/pkg/voiceprint"
)

// Authenticate identifies the speaker by comparing the sample's embedding
// against every enrolled voice profile. A best score below the similarity
// threshold fails without exposing which user came closest.
func (s *authDomainImpl) Authenticate(c context.Context, sample []byte) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	if err := s.utils.ValidateAudioSample(sample, s.opts.MinSampleDuration); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Login sample rejected")
		return auth.LoginResponse{}, auth.ErrInsufficientAudio
	}

	probe, err := s.extractor.Extract(c, sample)
	if err != nil {
		if errors.Is(err, voiceprint.ErrUnavailable) {
			// Degraded mode: voice login impossible, the caller must use
			// the password endpoint. Reported explicitly, never hidden.
			s.log.WithField("request_id", requestID).Warn("Extractor unavailable for login")
			return auth.LoginResponse{}, auth.ErrPasswordRequired
		}
		return auth.LoginResponse{}, auth.ErrInsufficientAudio
	}

	users, err := repo.Users.ListUsers(c)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	profiles := make(map[string][]float64)
	var order []string
	for _, user := range users {
		if user.AuthMode == entity.AuthModeVoice && len(user.Embedding) > 0 {
			profiles[user.Username] = user.Embedding
			order = append(order, user.Username)
		}
	}

	if len(order) == 0 {
		return auth.LoginResponse{}, auth.ErrAuthenticationFailed
	}

	username, score, err := voiceprint.BestMatch(probe, profiles, order)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Similarity scoring failed")
		return auth.LoginResponse{}, auth.ErrAuthenticationFailed
	}

	if score < s.opts.SimilarityThreshold {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"best_score": score,
			"threshold":  s.opts.SimilarityThreshold,
		}).Warn("Voice authentication below threshold")
		return auth.LoginResponse{}, auth.ErrAuthenticationFailed
	}

	res, err := s.issueSession(requestID, username, entity.AuthModeVoice)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	res.Score = score

	return res, nil
}

// AuthenticatePassword is the degraded-mode login with the same session
// issuance semantics as voice authentication.
func (s *authDomainImpl) AuthenticatePassword(c context.Context, req auth.PasswordLoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	user, err := repo.Users.GetByUsername(c, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if user.PasswordHash == "" {
		// Voice-only profile; no password credential exists.
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := s.bcryptUtils.ComparePassword(user.PasswordHash, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Password comparison failed")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueSession(requestID, user.Username, entity.AuthModePassword)
}

// issueSession drops any prior session for the user (single active session
// per username), then persists and signs a fresh one.
func (s *authDomainImpl) issueSession(requestID string, username string, mode entity.AuthMode) (auth.LoginResponse, error) {
	if err := s.sessions.DeleteByUsername(username); err != nil {
		return auth.LoginResponse{}, err
	}

	now := s.now()
	session := entity.Session{
		ID:        uuid.NewString(),
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.SessionTimeout),
	}

	if err := s.sessions.Put(session); err != nil {
		return auth.LoginResponse{}, err
	}

	token, err := jwtPkg.Sign(username, session.ID, session.ExpiresAt)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   username,
		"mode":       mode,
		"expires_at": session.ExpiresAt,
	}).Info("Session issued")

	return auth.LoginResponse{
		Token:     token,
		Username:  username,
		Mode:      mode,
		ExpiresAt: session.ExpiresAt.Unix(),
	}, nil
}
