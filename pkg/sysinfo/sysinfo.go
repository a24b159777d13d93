package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	gonet "github.com/shirou/gopsutil/v4/net"
)

// IProvider answers read-only platform queries for the info category.
type IProvider interface {
	SystemSummary(ctx context.Context) (string, error)
	Battery(ctx context.Context) (string, error)
	DiskSpace(ctx context.Context) (string, error)
	Memory(ctx context.Context) (string, error)
	CPU(ctx context.Context) (string, error)
	Network(ctx context.Context) (string, error)
}

type provider struct{}

func New() IProvider {
	return &provider{}
}

func (p *provider) SystemSummary(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("System: %s %s on %s", info.Platform, info.PlatformVersion, runtime.GOARCH), nil
}

func (p *provider) Battery(ctx context.Context) (string, error) {
	// gopsutil has no portable battery API; read the power supply class on
	// Linux and answer not-present elsewhere.
	percent, plugged, ok := readBattery()
	if !ok {
		return "No battery detected", nil
	}

	state := "on battery"
	if plugged {
		state = "plugged in"
	}
	return fmt.Sprintf("Battery at %d percent, %s", percent, state), nil
}

func (p *provider) DiskSpace(ctx context.Context) (string, error) {
	root := "/"
	if runtime.GOOS == "windows" {
		root = "C:"
	}

	usage, err := disk.UsageWithContext(ctx, root)
	if err != nil {
		return "", err
	}

	const gb = 1024 * 1024 * 1024
	return fmt.Sprintf("Disk: %.1f GB used of %.1f GB, %.1f GB free, %.0f percent used",
		float64(usage.Used)/gb, float64(usage.Total)/gb, float64(usage.Free)/gb, usage.UsedPercent), nil
}

func (p *provider) Memory(ctx context.Context) (string, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return "", err
	}

	const gb = 1024 * 1024 * 1024
	return fmt.Sprintf("Memory: %.1f GB used of %.1f GB, %.0f percent used",
		float64(vm.Used)/gb, float64(vm.Total)/gb, vm.UsedPercent), nil
}

func (p *provider) CPU(ctx context.Context) (string, error) {
	percents, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return "", err
	}
	if len(percents) == 0 {
		return "", fmt.Errorf("no cpu usage data")
	}

	return fmt.Sprintf("CPU usage is %.0f percent", percents[0]), nil
}

func (p *provider) Network(ctx context.Context) (string, error) {
	ifaces, err := gonet.InterfacesWithContext(ctx)
	if err != nil {
		return "", err
	}

	up := 0
	for _, iface := range ifaces {
		for _, flag := range iface.Flags {
			if flag == "up" && iface.Name != "lo" {
				up++
				break
			}
		}
	}

	if up == 0 {
		return "No network connection", nil
	}
	return fmt.Sprintf("Network is connected, %d interfaces up", up), nil
}
