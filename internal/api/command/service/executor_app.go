package commandService

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
)

func (e *executorDomainImpl) executeApp(c context.Context, cmd entity.Command) (string, error) {
	name, ok := cmd.Parameters["app_name"]
	if !ok || name == "" {
		return "", command.ErrMissingParameter
	}

	entry, found := e.registry.Resolve(name)
	if !found {
		return "", command.ErrApplicationNotFound
	}

	switch cmd.Intent {
	case "open":
		return e.openApp(c, entry)
	case "close":
		return e.closeApp(c, entry)
	default:
		return "", fmt.Errorf("unhandled app intent %q", cmd.Intent)
	}
}

func (e *executorDomainImpl) openApp(c context.Context, entry entity.AppRegistryEntry) (string, error) {
	if err := e.runner.Start(c, entry.Path); err != nil {
		return "", command.ErrApplicationNotFound
	}
	return fmt.Sprintf("Opening %s", entry.Name), nil
}

// closeApp terminates every running process whose executable name matches
// the registry entry. Termination is polite (SIGTERM); a stubborn process
// is the user's problem, not ours.
func (e *executorDomainImpl) closeApp(c context.Context, entry entity.AppRegistryEntry) (string, error) {
	target := strings.ToLower(filepath.Base(entry.Path))

	procs, err := process.ProcessesWithContext(c)
	if err != nil {
		return "", command.ErrPlatformQuery
	}

	closed := 0
	for _, p := range procs {
		name, err := p.NameWithContext(c)
		if err != nil {
			continue
		}
		if strings.ToLower(name) != target {
			continue
		}
		if err := p.TerminateWithContext(c); err != nil {
			continue
		}
		closed++
	}

	if closed == 0 {
		return "", command.ErrApplicationNotFound
	}
	return fmt.Sprintf("Closed %s", entry.Name), nil
}
