package authService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"EchoOS/internal/api/auth"
	authRepository "EchoOS/internal/api/auth/repository"
	"EchoOS/internal/entity"
	"EchoOS/pkg/bcrypt"
	"EchoOS/pkg/utils"
	"EchoOS/pkg/voiceprint"
)

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
	Session() SessionDomain
}

type UserDomain interface {
	Register(c context.Context, req auth.RegisterUserRequest, sample []byte) (auth.RegisterUserResponse, error)
	Delete(c context.Context, username string) error
}

type AuthDomain interface {
	Authenticate(c context.Context, sample []byte) (auth.LoginResponse, error)
	AuthenticatePassword(c context.Context, req auth.PasswordLoginRequest) (auth.LoginResponse, error)
}

type SessionDomain interface {
	Validate(c context.Context, token string) (entity.Session, error)
	Logout(c context.Context, token string) error
}

// Options carry the tunables from the settings file. The similarity
// threshold is configuration, never a code constant.
type Options struct {
	SimilarityThreshold float64
	SessionTimeout      time.Duration
	MinSampleDuration   time.Duration
}

type authService struct {
	userDomain    UserDomain
	authDomain    AuthDomain
	sessionDomain SessionDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) Session() SessionDomain {
	return a.sessionDomain
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	sessions    authRepository.SessionStore
	extractor   voiceprint.Extractor
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
	opts        Options
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	sessions    authRepository.SessionStore
	extractor   voiceprint.Extractor
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
	opts        Options
	now         func() time.Time
}

type sessionDomainImpl struct {
	log      *logrus.Logger
	sessions authRepository.SessionStore
	now      func() time.Time
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	sessionStore authRepository.SessionStore,
	extractor voiceprint.Extractor,
	bcryptUtils bcrypt.IBcrypt,
	utilsPkg utils.IUtils,
	opts Options,
) AuthService {
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = 0.75
	}
	if opts.SessionTimeout == 0 {
		opts.SessionTimeout = 30 * time.Minute
	}
	if opts.MinSampleDuration == 0 {
		opts.MinSampleDuration = 3 * time.Second
	}

	return &authService{
		userDomain: &userDomainImpl{
			log:         log,
			repo:        authRepo,
			sessions:    sessionStore,
			extractor:   extractor,
			bcryptUtils: bcryptUtils,
			utils:       utilsPkg,
			opts:        opts,
		},
		authDomain: &authDomainImpl{
			log:         log,
			repo:        authRepo,
			sessions:    sessionStore,
			extractor:   extractor,
			bcryptUtils: bcryptUtils,
			utils:       utilsPkg,
			opts:        opts,
			now:         time.Now,
		},
		sessionDomain: &sessionDomainImpl{
			log:      log,
			sessions: sessionStore,
			now:      time.Now,
		},
	}
}
