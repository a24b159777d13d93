package commandService

import (
	"context"
	"fmt"
	"runtime"

	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
)

// accessibilityInvocations maps intent -> GOOS -> argument vector.
var accessibilityInvocations = map[string]map[string][]string{
	"zoom_in": {
		"linux":  {"xdotool", "key", "super+plus"},
		"darwin": {"osascript", "-e", `tell application "System Events" to key code 24 using {command down, option down}`},
	},
	"zoom_out": {
		"linux":  {"xdotool", "key", "super+minus"},
		"darwin": {"osascript", "-e", `tell application "System Events" to key code 27 using {command down, option down}`},
	},
	"screen_reader": {
		"linux":  {"gsettings", "set", "org.gnome.desktop.a11y.applications", "screen-reader-enabled", "true"},
		"darwin": {"osascript", "-e", `tell application "VoiceOver" to activate`},
	},
	"high_contrast": {
		"linux":  {"gsettings", "set", "org.gnome.desktop.a11y.interface", "high-contrast", "true"},
		"darwin": {"osascript", "-e", `tell application "System Events" to tell appearance preferences to set dark mode to true`},
	},
	"scroll_up": {
		"linux":  {"xdotool", "click", "4"},
		"darwin": {"osascript", "-e", `tell application "System Events" to key code 116`},
	},
	"scroll_down": {
		"linux":  {"xdotool", "click", "5"},
		"darwin": {"osascript", "-e", `tell application "System Events" to key code 121`},
	},
	"click": {
		"linux": {"xdotool", "click", "1"},
	},
}

var accessibilityMessages = map[string]string{
	"zoom_in":       "Zooming in",
	"zoom_out":      "Zooming out",
	"screen_reader": "Screen reader enabled",
	"high_contrast": "High contrast enabled",
	"scroll_up":     "Scrolling up",
	"scroll_down":   "Scrolling down",
	"click":         "Clicked",
}

func (e *executorDomainImpl) executeAccessibility(c context.Context, cmd entity.Command) (string, error) {
	platforms, ok := accessibilityInvocations[cmd.Intent]
	if !ok {
		return "", fmt.Errorf("unhandled accessibility intent %q", cmd.Intent)
	}

	argv, ok := platforms[runtime.GOOS]
	if !ok {
		return "", command.ErrAutomation
	}

	if err := e.runner.Run(c, argv[0], argv[1:]...); err != nil {
		return "", command.ErrAutomation
	}

	return accessibilityMessages[cmd.Intent], nil
}
