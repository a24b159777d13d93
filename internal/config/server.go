package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"EchoOS/database/sqlite"
	authHandler "EchoOS/internal/api/auth/handler"
	authRepository "EchoOS/internal/api/auth/repository"
	authService "EchoOS/internal/api/auth/service"
	"EchoOS/internal/api/command"
	commandHandler "EchoOS/internal/api/command/handler"
	commandRepository "EchoOS/internal/api/command/repository"
	commandService "EchoOS/internal/api/command/service"
	"EchoOS/internal/entity"
	"EchoOS/internal/middleware"
	"EchoOS/pkg/bcrypt"
	"EchoOS/pkg/stt"
	"EchoOS/pkg/sysinfo"
	"EchoOS/pkg/tts"
	"EchoOS/pkg/utils"
	"EchoOS/pkg/voiceprint"
)

const (
	defaultSettingsPath    = "config/settings.json"
	defaultPhraseTablePath = "config/commands.json"
	defaultAppRegistryPath = "config/apps.json"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	bcryptUtils  bcrypt.IBcrypt
	handlers     []handler
	settings     Settings
	sessionStore authRepository.SessionStore
	extractor    voiceprint.Extractor
	recognizer   stt.IRecognizer
	speaker      tts.ISpeaker
	sysProvider  sysinfo.IProvider
	phraseTable  entity.PhraseTable
	appRegistry  entity.AppRegistry
	commandSvc   commandService.CommandService
	cancelStream context.CancelFunc
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithSettings() ServerOption {
	return func(s *Server) error {
		if s.validator == nil {
			return fmt.Errorf("validator must be initialized before settings")
		}

		path := os.Getenv("SETTINGS_PATH")
		if path == "" {
			path = defaultSettingsPath
		}

		settings, err := LoadSettings(path, s.validator)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		s.settings = settings
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := sqlite.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to open database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithSessionStore() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before session store")
		}

		store, err := authRepository.NewSessionStore(s.log)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		s.sessionStore = store
		return nil
	}
}

func WithExtractor() ServerOption {
	return func(s *Server) error {
		s.extractor = voiceprint.NewWSExtractor(s.log)
		return nil
	}
}

func WithRecognizer() ServerOption {
	return func(s *Server) error {
		s.recognizer = stt.NewRecognizer(s.log)
		return nil
	}
}

func WithSpeaker() ServerOption {
	return func(s *Server) error {
		s.speaker = tts.New(s.log, s.settings.SpeechRate, s.settings.SpeechVolume)
		return nil
	}
}

func WithSysinfoProvider() ServerOption {
	return func(s *Server) error {
		s.sysProvider = sysinfo.New()
		return nil
	}
}

func WithPhraseTable() ServerOption {
	return func(s *Server) error {
		if s.validator == nil {
			return fmt.Errorf("validator must be initialized before phrase table")
		}

		path := os.Getenv("PHRASE_TABLE_PATH")
		if path == "" {
			path = defaultPhraseTablePath
		}

		table, err := command.LoadPhraseTable(path, s.validator)
		if err != nil {
			return fmt.Errorf("failed to load phrase table: %w", err)
		}
		s.phraseTable = table
		return nil
	}
}

func WithAppRegistry() ServerOption {
	return func(s *Server) error {
		if s.validator == nil {
			return fmt.Errorf("validator must be initialized before app registry")
		}

		path := os.Getenv("APP_REGISTRY_PATH")
		if path == "" {
			path = defaultAppRegistryPath
		}

		registry, err := command.LoadAppRegistry(path, s.validator)
		if err != nil {
			return fmt.Errorf("failed to load app registry: %w", err)
		}
		s.appRegistry = registry
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.sessionStore, s.extractor, s.bcryptUtils, s.utils, authService.Options{
		SimilarityThreshold: s.settings.SimilarityThreshold,
		SessionTimeout:      time.Duration(s.settings.SessionTimeoutMinutes) * time.Minute,
		MinSampleDuration:   time.Duration(s.settings.MinSampleSeconds) * time.Second,
	})

	s.middleware = middleware.New(s.log, authServices)

	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Command Domain
	commandRepo := commandRepository.New(s.db, s.log)
	commandServices := commandService.New(s.log, s.phraseTable, s.appRegistry, commandRepo, authServices,
		commandService.NewRunner(), s.sysProvider, s.speaker, s.utils, commandService.Options{
			MatchThreshold: s.settings.MatchThreshold,
			CommandTimeout: time.Duration(s.settings.CommandTimeoutSeconds) * time.Second,
			VolumeStepMin:  s.settings.VolumeStepMin,
			VolumeStepMax:  s.settings.VolumeStepMax,
			QueueSize:      s.settings.QueueSize,
		})
	s.commandSvc = commandServices
	commandHandlers := commandHandler.New(s.log, commandServices, commandRepo, s.validator, s.middleware)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, commandHandlers)
}

// startRecognizerStream keeps a recognizer connection alive in the
// background, feeding transcripts into the pipeline. Reconnects with a
// fixed delay; the recognizer daemon may start after we do.
func (s *Server) startRecognizerStream(ctx context.Context) {
	if s.recognizer == nil || s.commandSvc == nil {
		return
	}

	transcripts := make(chan entity.Transcript, s.settings.QueueSize)
	go s.commandSvc.Pipeline().Run(ctx, transcripts)

	go func() {
		for {
			if err := s.recognizer.Stream(ctx, transcripts); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.WithError(err).Warn("Recognizer stream ended, reconnecting")
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}
	}()
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	s.cancelStream = cancel
	s.startRecognizerStream(streamCtx)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		cancel()
		return err
	}

	return nil
}

func (s *Server) Shutdown() {
	if s.cancelStream != nil {
		s.cancelStream()
	}
	if s.db != nil {
		s.db.Close()
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
