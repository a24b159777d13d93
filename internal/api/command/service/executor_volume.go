package commandService

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
)

const defaultVolumeStep = 10

func (e *executorDomainImpl) executeVolume(c context.Context, cmd entity.Command) (string, error) {
	switch cmd.Intent {
	case "up", "down":
		amount := defaultVolumeStep
		if raw, ok := cmd.Parameters["amount"]; ok {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return "", command.ErrUnsafeVolumeDelta
			}
			amount = parsed
		}
		if amount < e.opts.VolumeStepMin || amount > e.opts.VolumeStepMax {
			return "", command.ErrUnsafeVolumeDelta
		}
		return e.adjustVolume(c, cmd.Intent, amount)
	case "mute":
		return e.setMute(c, true)
	case "unmute":
		return e.setMute(c, false)
	default:
		return "", fmt.Errorf("unhandled volume intent %q", cmd.Intent)
	}
}

// adjustVolume shells out to the platform mixer. The delta is a validated
// integer formatted by us, never raw transcript text.
func (e *executorDomainImpl) adjustVolume(c context.Context, direction string, amount int) (string, error) {
	var argv []string
	switch runtime.GOOS {
	case "linux":
		sign := "+"
		if direction == "down" {
			sign = "-"
		}
		argv = []string{"pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%s%d%%", sign, amount)}
	case "darwin":
		op := "+"
		if direction == "down" {
			op = "-"
		}
		script := fmt.Sprintf("set volume output volume (output volume of (get volume settings) %s %d)", op, amount)
		argv = []string{"osascript", "-e", script}
	case "windows":
		// nircmd changevolume takes 1/65535 units.
		units := amount * 655
		if direction == "down" {
			units = -units
		}
		argv = []string{"nircmd.exe", "changesysvolume", strconv.Itoa(units)}
	default:
		return "", command.ErrAutomation
	}

	if err := e.runner.Run(c, argv[0], argv[1:]...); err != nil {
		return "", command.ErrAutomation
	}

	word := "up"
	if direction == "down" {
		word = "down"
	}
	return fmt.Sprintf("Volume %s by %d percent", word, amount), nil
}

func (e *executorDomainImpl) setMute(c context.Context, mute bool) (string, error) {
	var argv []string
	switch runtime.GOOS {
	case "linux":
		state := "1"
		if !mute {
			state = "0"
		}
		argv = []string{"pactl", "set-sink-mute", "@DEFAULT_SINK@", state}
	case "darwin":
		script := "set volume output muted true"
		if !mute {
			script = "set volume output muted false"
		}
		argv = []string{"osascript", "-e", script}
	case "windows":
		state := "1"
		if !mute {
			state = "0"
		}
		argv = []string{"nircmd.exe", "mutesysvolume", state}
	default:
		return "", command.ErrAutomation
	}

	if err := e.runner.Run(c, argv[0], argv[1:]...); err != nil {
		return "", command.ErrAutomation
	}

	if mute {
		return "Muted", nil
	}
	return "Unmuted", nil
}
