package commandService

import (
	"context"
	"fmt"
	"time"

	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
)

func (e *executorDomainImpl) executeInfo(c context.Context, cmd entity.Command) (string, error) {
	switch cmd.Intent {
	case "time":
		return fmt.Sprintf("It is %s", time.Now().Format("3:04 PM")), nil
	case "date":
		return fmt.Sprintf("Today is %s", time.Now().Format("Monday, January 2, 2006")), nil
	case "battery":
		return e.queryPlatform(c, e.info.Battery)
	case "disk_space":
		return e.queryPlatform(c, e.info.DiskSpace)
	case "memory":
		return e.queryPlatform(c, e.info.Memory)
	case "cpu":
		return e.queryPlatform(c, e.info.CPU)
	case "network":
		return e.queryPlatform(c, e.info.Network)
	case "system":
		return e.queryPlatform(c, e.info.SystemSummary)
	default:
		return "", fmt.Errorf("unhandled info intent %q", cmd.Intent)
	}
}

// queryPlatform retries a flaky probe once before giving up. Platform
// queries are read-only so the retry is always safe.
func (e *executorDomainImpl) queryPlatform(c context.Context, fn func(context.Context) (string, error)) (string, error) {
	out, err := retryOnce(c, fn)
	if err != nil {
		return "", command.ErrPlatformQuery
	}
	return out, nil
}
