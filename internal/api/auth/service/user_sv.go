package authService

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"EchoOS/internal/api/auth"
	contextPkg "EchoOS/pkg/context"
	"EchoOS/internal/entity"
	"EchoOS/pkg/voiceprint"
)

// Register enrolls a new voice profile. When the extractor is down or the
// sample is unusable, enrollment degrades to password mode instead of
// failing the whole flow; the caller sees which mode was used.
func (s *userDomainImpl) Register(c context.Context, req auth.RegisterUserRequest, sample []byte) (auth.RegisterUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.RegisterUserResponse{}, err
	}

	// Re-registration is an explicit reject; replacing a voice template
	// requires deleting the user first.
	if _, err := repo.Users.GetByUsername(c, req.Username); err == nil {
		return auth.RegisterUserResponse{}, auth.ErrDuplicateUser
	} else if !errors.Is(err, auth.ErrUserNotFound) {
		return auth.RegisterUserResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return auth.RegisterUserResponse{}, err
	}

	user := entity.User{
		ID:       id,
		Username: req.Username,
	}

	mode := entity.AuthModePassword
	if len(sample) > 0 && s.extractor.Available() {
		if err := s.utils.ValidateAudioSample(sample, s.opts.MinSampleDuration); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   req.Username,
				"error":      err.Error(),
			}).Warn("Enrollment sample rejected")
			return auth.RegisterUserResponse{}, auth.ErrInsufficientAudio
		}

		embedding, err := s.extractor.Extract(c, sample)
		switch {
		case err == nil:
			user.Embedding = embedding
			mode = entity.AuthModeVoice
		case errors.Is(err, voiceprint.ErrUnavailable):
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   req.Username,
			}).Warn("Extractor unavailable, falling back to password enrollment")
		default:
			return auth.RegisterUserResponse{}, auth.ErrInsufficientAudio
		}
	}

	if mode == entity.AuthModePassword {
		if req.Password == "" {
			return auth.RegisterUserResponse{}, auth.ErrPasswordRequired
		}
		hash, err := s.bcryptUtils.HashPassword(req.Password)
		if err != nil {
			return auth.RegisterUserResponse{}, err
		}
		user.PasswordHash = hash
	}
	user.AuthMode = mode

	if err := repo.Users.CreateUser(c, user); err != nil {
		return auth.RegisterUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   req.Username,
		"mode":       mode,
	}).Info("User registered")

	return auth.RegisterUserResponse{
		Username: req.Username,
		Mode:     mode,
	}, nil
}

func (s *userDomainImpl) Delete(c context.Context, username string) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	if err := repo.Users.DeleteUser(c, username); err != nil {
		return err
	}

	// A deleted user must not keep a live session.
	if err := s.sessions.DeleteByUsername(username); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   username,
			"error":      err.Error(),
		}).Error("Failed to drop sessions for deleted user")
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   username,
	}).Info("User deleted")

	return nil
}
