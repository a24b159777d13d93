package commandService

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	authService "EchoOS/internal/api/auth/service"
	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
	"EchoOS/pkg/response"
	"EchoOS/pkg/tts"
)

// StreamUpdate is one event on the live pipeline feed.
type StreamUpdate struct {
	Type       string                `json:"type"`
	Transcript *entity.Transcript    `json:"transcript,omitempty"`
	Command    *entity.Command       `json:"command,omitempty"`
	Result     *entity.CommandResult `json:"result,omitempty"`
	Listening  *bool                 `json:"listening,omitempty"`
}

const (
	UpdatePartial = "partial"
	UpdateFinal   = "final"
	UpdateResult  = "result"
	UpdateState   = "state"
)

type pipelineDomainImpl struct {
	log      *logrus.Logger
	parser   ParserDomain
	executor ExecutorDomain
	auth     authService.AuthService
	speaker  tts.ISpeaker
	opts     Options

	mu          sync.Mutex
	listening   bool
	activeToken string
	subscribers map[string]chan StreamUpdate
	queue       chan string
}

func newPipeline(log *logrus.Logger,
	parser ParserDomain,
	executor ExecutorDomain,
	authSvc authService.AuthService,
	speaker tts.ISpeaker,
	opts Options,
) *pipelineDomainImpl {
	return &pipelineDomainImpl{
		log:         log,
		parser:      parser,
		executor:    executor,
		auth:        authSvc,
		speaker:     speaker,
		opts:        opts,
		listening:   true,
		subscribers: map[string]chan StreamUpdate{},
		queue:       make(chan string, opts.QueueSize),
	}
}

// SubmitTranscript runs a single transcript through the full gate. The
// session is validated before any execution; an invalid token yields a
// failed result, never a command run on someone's behalf.
func (p *pipelineDomainImpl) SubmitTranscript(c context.Context, token string, text string) (entity.Command, entity.CommandResult) {
	cmd := p.parser.Parse(text)

	if cmd.Category == entity.CategoryControl && !cmd.IsUnknown() {
		result := p.applyControl(cmd)
		p.broadcast(StreamUpdate{Type: UpdateResult, Command: &cmd, Result: &result})
		return cmd, result
	}

	if !p.Listening() {
		result := entity.CommandResult{
			Success:   false,
			Message:   "Not listening",
			ErrorKind: response.KindOf(command.ErrNotListening),
		}
		p.broadcast(StreamUpdate{Type: UpdateResult, Command: &cmd, Result: &result})
		return cmd, result
	}

	session, err := p.auth.Session().Validate(c, token)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Rejected transcript without a valid session")
		result := entity.CommandResult{
			Success:   false,
			Message:   "Please log in first",
			ErrorKind: response.KindOf(err),
		}
		p.broadcast(StreamUpdate{Type: UpdateResult, Command: &cmd, Result: &result})
		return cmd, result
	}

	result := p.executor.Execute(c, session.Username, cmd)
	p.broadcast(StreamUpdate{Type: UpdateResult, Command: &cmd, Result: &result})
	p.speak(c, result.Message)

	return cmd, result
}

// applyControl flips the listening gate. Control commands bypass the gate
// itself, otherwise "start listening" could never be heard.
func (p *pipelineDomainImpl) applyControl(cmd entity.Command) entity.CommandResult {
	p.mu.Lock()
	switch cmd.Intent {
	case "start_listening":
		p.listening = true
	case "stop_listening":
		p.listening = false
	}
	listening := p.listening
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"intent":    cmd.Intent,
		"listening": listening,
	}).Info("Listening state changed")

	p.broadcast(StreamUpdate{Type: UpdateState, Listening: &listening})

	if listening {
		return entity.CommandResult{Success: true, Message: "Listening"}
	}
	return entity.CommandResult{Success: true, Message: "Stopped listening"}
}

// Attach binds a session token to the microphone stream.
func (p *pipelineDomainImpl) Attach(token string) {
	p.mu.Lock()
	p.activeToken = token
	p.mu.Unlock()
}

func (p *pipelineDomainImpl) attachedToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeToken
}

// Run consumes recognizer output until the context is cancelled. Partials
// are fanned out to subscribers only; finals are queued for the single
// dispatch worker so commands execute strictly in arrival order.
func (p *pipelineDomainImpl) Run(ctx context.Context, transcripts <-chan entity.Transcript) {
	go p.dispatchLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case transcript, ok := <-transcripts:
			if !ok {
				return
			}

			if !transcript.IsFinal {
				t := transcript
				p.broadcast(StreamUpdate{Type: UpdatePartial, Transcript: &t})
				continue
			}
			if transcript.Text == "" {
				continue
			}

			t := transcript
			p.broadcast(StreamUpdate{Type: UpdateFinal, Transcript: &t})

			select {
			case p.queue <- transcript.Text:
			default:
				p.log.WithFields(logrus.Fields{
					"transcript": transcript.Text,
				}).Warn("Transcript queue full, dropping")
			}
		}
	}
}

func (p *pipelineDomainImpl) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-p.queue:
			p.SubmitTranscript(ctx, p.attachedToken(), text)
		}
	}
}

func (p *pipelineDomainImpl) Subscribe() (string, <-chan StreamUpdate) {
	id := uuid.NewString()
	events := make(chan StreamUpdate, 32)

	p.mu.Lock()
	p.subscribers[id] = events
	p.mu.Unlock()

	return id, events
}

func (p *pipelineDomainImpl) Unsubscribe(id string) {
	p.mu.Lock()
	if events, ok := p.subscribers[id]; ok {
		delete(p.subscribers, id)
		close(events)
	}
	p.mu.Unlock()
}

func (p *pipelineDomainImpl) Listening() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listening
}

// broadcast never blocks; a slow subscriber loses events rather than
// stalling the dispatch worker.
func (p *pipelineDomainImpl) broadcast(update StreamUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, events := range p.subscribers {
		select {
		case events <- update:
		default:
		}
	}
}

func (p *pipelineDomainImpl) speak(c context.Context, message string) {
	if p.speaker == nil || message == "" {
		return
	}
	if err := p.speaker.Speak(c, message); err != nil {
		p.log.WithError(err).Debug("Speech feedback failed")
	}
}
