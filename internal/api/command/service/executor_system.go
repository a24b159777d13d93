package commandService

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
)

// systemInvocations maps intent -> GOOS -> argument vector. Fixed argv
// tables only; transcript text never reaches these commands.
var systemInvocations = map[string]map[string][]string{
	"shutdown": {
		"linux":   {"systemctl", "poweroff"},
		"darwin":  {"osascript", "-e", `tell app "System Events" to shut down`},
		"windows": {"shutdown", "/s", "/t", "0"},
	},
	"restart": {
		"linux":   {"systemctl", "reboot"},
		"darwin":  {"osascript", "-e", `tell app "System Events" to restart`},
		"windows": {"shutdown", "/r", "/t", "0"},
	},
	"sleep": {
		"linux":   {"systemctl", "suspend"},
		"darwin":  {"pmset", "sleepnow"},
		"windows": {"rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0"},
	},
	"lock": {
		"linux":   {"loginctl", "lock-session"},
		"darwin":  {"pmset", "displaysleepnow"},
		"windows": {"rundll32.exe", "user32.dll,LockWorkStation"},
	},
}

var systemMessages = map[string]string{
	"shutdown": "Shutting down the system",
	"restart":  "Restarting the system",
	"sleep":    "Putting the system to sleep",
	"lock":     "Locking the screen",
}

func (e *executorDomainImpl) executeSystem(c context.Context, cmd entity.Command) (string, error) {
	platforms, ok := systemInvocations[cmd.Intent]
	if !ok {
		return "", fmt.Errorf("unhandled system intent %q", cmd.Intent)
	}

	argv, ok := platforms[runtime.GOOS]
	if !ok {
		return "", command.ErrAutomation
	}

	if err := e.runner.Run(c, argv[0], argv[1:]...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", command.ErrAutomation
	}

	return systemMessages[cmd.Intent], nil
}
