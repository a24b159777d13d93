//go:build !linux

package sysinfo

func readBattery() (percent int, plugged bool, ok bool) {
	return 0, false, false
}
