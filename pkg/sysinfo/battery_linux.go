//go:build linux

package sysinfo

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func readBattery() (percent int, plugged bool, ok bool) {
	matches, err := filepath.Glob("/sys/class/power_supply/BAT*/capacity")
	if err != nil || len(matches) == 0 {
		return 0, false, false
	}

	raw, err := os.ReadFile(matches[0])
	if err != nil {
		return 0, false, false
	}
	percent, err = strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, false
	}

	statusPath := filepath.Join(filepath.Dir(matches[0]), "status")
	if raw, err := os.ReadFile(statusPath); err == nil {
		status := strings.TrimSpace(string(raw))
		plugged = status == "Charging" || status == "Full"
	}

	return percent, plugged, true
}
