package commandService

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
)

// filenameDenylist rejects shell metacharacters outright. Invocations are
// argv-only so these could never be interpreted anyway, but a transcript
// containing them is garbage input, not a filename.
const filenameDenylist = "|&;`$\n"

func validateFilename(name string) error {
	if name == "" {
		return command.ErrInvalidFilename
	}
	if strings.ContainsAny(name, filenameDenylist) {
		return command.ErrInvalidFilename
	}
	if strings.ContainsAny(name, `/\`) {
		return command.ErrInvalidFilename
	}
	if strings.Contains(name, "..") {
		return command.ErrInvalidFilename
	}
	return nil
}

func documentsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Documents")
}

func (e *executorDomainImpl) executeFile(c context.Context, cmd entity.Command) (string, error) {
	if cmd.Intent == "list_files" {
		return e.listFiles()
	}

	name, ok := cmd.Parameters["filename"]
	if !ok || name == "" {
		return "", command.ErrMissingParameter
	}

	if err := validateFilename(name); err != nil {
		return "", err
	}

	path := filepath.Join(documentsDir(), name)

	switch cmd.Intent {
	case "open_file":
		return e.openPath(c, path, fmt.Sprintf("Opening %s", name))
	case "create_file":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if os.IsExist(err) {
				return "", command.ErrInvalidFilename
			}
			return "", command.ErrAutomation
		}
		f.Close()
		return fmt.Sprintf("Created %s", name), nil
	case "delete_file":
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				return "", command.ErrInvalidFilename
			}
			return "", command.ErrAutomation
		}
		return fmt.Sprintf("Deleted %s", name), nil
	default:
		return "", fmt.Errorf("unhandled file intent %q", cmd.Intent)
	}
}

// listFiles counts regular files in the Documents directory.
func (e *executorDomainImpl) listFiles() (string, error) {
	entries, err := os.ReadDir(documentsDir())
	if err != nil {
		return "", command.ErrAutomation
	}

	count := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}

	if count == 1 {
		return "Found 1 file", nil
	}
	return fmt.Sprintf("Found %d files", count), nil
}

// openPath hands a path to the desktop's default opener.
func (e *executorDomainImpl) openPath(c context.Context, path, message string) (string, error) {
	var argv []string
	switch runtime.GOOS {
	case "linux":
		argv = []string{"xdg-open", path}
	case "darwin":
		argv = []string{"open", path}
	case "windows":
		argv = []string{"rundll32.exe", "url.dll,FileProtocolHandler", path}
	default:
		return "", command.ErrAutomation
	}

	if err := e.runner.Start(c, argv[0], argv[1:]...); err != nil {
		return "", command.ErrAutomation
	}
	return message, nil
}
