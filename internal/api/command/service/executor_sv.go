package commandService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"EchoOS/internal/api/command"
	commandRepository "EchoOS/internal/api/command/repository"
	"EchoOS/internal/entity"
	contextPkg "EchoOS/pkg/context"
	"EchoOS/pkg/response"
	"EchoOS/pkg/sysinfo"
	"EchoOS/pkg/utils"
)

type executorDomainImpl struct {
	log      *logrus.Logger
	registry entity.AppRegistry
	repo     commandRepository.Repository
	runner   IRunner
	info     sysinfo.IProvider
	utils    utils.IUtils
	opts     Options
}

// Execute validates and dispatches one command. It never lets a platform
// failure escape: every outcome becomes a CommandResult so the feedback
// sink always has something to say.
func (e *executorDomainImpl) Execute(c context.Context, username string, cmd entity.Command) entity.CommandResult {
	requestID := contextPkg.GetRequestID(c)

	if cmd.IsUnknown() {
		result := entity.CommandResult{
			Success:   false,
			Message:   "Sorry, I did not understand that",
			ErrorKind: command.KindUnknownCommand,
		}
		e.appendLog(c, username, cmd, result)
		return result
	}

	e.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   username,
		"category":   cmd.Category,
		"intent":     cmd.Intent,
	}).Info("Executing command")

	execCtx, cancel := context.WithTimeout(c, e.opts.CommandTimeout)
	defer cancel()

	message, err := e.dispatch(execCtx, cmd)

	var result entity.CommandResult
	switch {
	case err == nil:
		result = entity.CommandResult{Success: true, Message: message}
	case errors.Is(err, context.DeadlineExceeded):
		result = entity.CommandResult{
			Success:   false,
			Message:   "The command timed out",
			ErrorKind: response.KindOf(command.ErrExecutionTimeout),
		}
	default:
		e.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"category":   cmd.Category,
			"intent":     cmd.Intent,
			"error":      err.Error(),
		}).Warn("Command execution failed")
		result = entity.CommandResult{
			Success:   false,
			Message:   failureMessage(err),
			ErrorKind: response.KindOf(err),
		}
	}

	e.appendLog(c, username, cmd, result)
	return result
}

func (e *executorDomainImpl) dispatch(c context.Context, cmd entity.Command) (string, error) {
	switch cmd.Category {
	case entity.CategorySystem:
		return e.executeSystem(c, cmd)
	case entity.CategoryApp:
		return e.executeApp(c, cmd)
	case entity.CategoryFile:
		return e.executeFile(c, cmd)
	case entity.CategoryWeb:
		return e.executeWeb(c, cmd)
	case entity.CategoryInfo:
		return e.executeInfo(c, cmd)
	case entity.CategoryVolume:
		return e.executeVolume(c, cmd)
	case entity.CategoryAccessibility:
		return e.executeAccessibility(c, cmd)
	case entity.CategoryControl:
		// Control intents mutate pipeline state only; the pipeline handles
		// them before execution ever reaches this point.
		return "Okay", nil
	default:
		return "", fmt.Errorf("unhandled category %q", cmd.Category)
	}
}

func failureMessage(err error) string {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return respErr.Err.Error()
	}
	return "Command execution failed"
}

func (e *executorDomainImpl) appendLog(c context.Context, username string, cmd entity.Command, result entity.CommandResult) {
	id, err := e.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return
	}

	record := entity.CommandLog{
		ID:         id,
		Username:   username,
		Transcript: cmd.RawText,
		Category:   string(cmd.Category),
		Intent:     cmd.Intent,
		Success:    result.Success,
		Message:    result.Message,
	}

	if err := e.repo.NewClient().Logs.Append(c, record); err != nil {
		e.log.WithError(err).Debug("Failed to append command log")
	}
}

// retryOnce retries a transient platform query after a short backoff.
func retryOnce(c context.Context, fn func(context.Context) (string, error)) (string, error) {
	out, err := fn(c)
	if err == nil {
		return out, nil
	}

	select {
	case <-c.Done():
		return "", c.Err()
	case <-time.After(250 * time.Millisecond):
	}

	return fn(c)
}
