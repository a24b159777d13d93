package commandService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	authService "EchoOS/internal/api/auth/service"
	commandRepository "EchoOS/internal/api/command/repository"
	"EchoOS/internal/entity"
	"EchoOS/pkg/nlp"
	"EchoOS/pkg/sysinfo"
	"EchoOS/pkg/tts"
	"EchoOS/pkg/utils"
)

type CommandService interface {
	Parser() ParserDomain
	Executor() ExecutorDomain
	Pipeline() PipelineDomain
}

type ParserDomain interface {
	Parse(text string) entity.Command
}

type ExecutorDomain interface {
	Execute(c context.Context, username string, cmd entity.Command) entity.CommandResult
}

type PipelineDomain interface {
	// SubmitTranscript runs the full gate: session check, parse, execute.
	SubmitTranscript(c context.Context, token string, text string) (entity.Command, entity.CommandResult)
	// Run consumes recognizer transcripts until the context is cancelled.
	Run(ctx context.Context, transcripts <-chan entity.Transcript)
	// Attach binds a session token to the microphone stream; transcripts
	// heard from then on execute under that session.
	Attach(token string)
	Subscribe() (id string, events <-chan StreamUpdate)
	Unsubscribe(id string)
	Listening() bool
}

// Options carries executor and pipeline tunables from the settings file.
type Options struct {
	MatchThreshold   float64
	CommandTimeout   time.Duration
	VolumeStepMin    int
	VolumeStepMax    int
	QueueSize        int
}

type commandService struct {
	parserDomain   ParserDomain
	executorDomain ExecutorDomain
	pipelineDomain PipelineDomain
}

func (s *commandService) Parser() ParserDomain     { return s.parserDomain }
func (s *commandService) Executor() ExecutorDomain { return s.executorDomain }
func (s *commandService) Pipeline() PipelineDomain { return s.pipelineDomain }

func New(log *logrus.Logger,
	table entity.PhraseTable,
	registry entity.AppRegistry,
	commandRepo commandRepository.Repository,
	authSvc authService.AuthService,
	runner IRunner,
	info sysinfo.IProvider,
	speaker tts.ISpeaker,
	utilsPkg utils.IUtils,
	opts Options,
) CommandService {
	if opts.MatchThreshold == 0 {
		opts.MatchThreshold = 0.6
	}
	if opts.CommandTimeout == 0 {
		opts.CommandTimeout = 10 * time.Second
	}
	if opts.VolumeStepMin == 0 {
		opts.VolumeStepMin = 1
	}
	if opts.VolumeStepMax == 0 {
		opts.VolumeStepMax = 50
	}
	if opts.QueueSize == 0 {
		opts.QueueSize = 16
	}

	parser := &parserDomainImpl{
		log:     log,
		table:   table,
		matcher: nlp.NewMatcher(),
		opts:    opts,
	}

	executor := &executorDomainImpl{
		log:      log,
		registry: registry,
		repo:     commandRepo,
		runner:   runner,
		info:     info,
		utils:    utilsPkg,
		opts:     opts,
	}

	pipeline := newPipeline(log, parser, executor, authSvc, speaker, opts)

	return &commandService{
		parserDomain:   parser,
		executorDomain: executor,
		pipelineDomain: pipeline,
	}
}
