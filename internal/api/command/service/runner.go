package commandService

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// IRunner spawns OS processes. Every invocation is a discrete argument
// vector; nothing in this repository ever composes a shell string from
// transcript text.
type IRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Start(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func NewRunner() IRunner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Start launches without waiting; used for applications the user opens.
// The child is deliberately not bound to the command context: an opened
// application must outlive the request that opened it.
func (r *execRunner) Start(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	// Reap the child when it exits so it never lingers as a zombie.
	go cmd.Wait()

	return nil
}

func (r *execRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ctx.Err()
		}
		return "", err
	}

	return strings.TrimSpace(out.String()), nil
}
