package command

import (
	"EchoOS/pkg/response"
	"net/http"
)

var (
	ErrInvalidFilename     = response.NewKindError(http.StatusBadRequest, "invalid_filename", "filename contains forbidden characters or path references")
	ErrApplicationNotFound = response.NewKindError(http.StatusNotFound, "application_not_found", "application is not in the registry")
	ErrPlatformQuery       = response.NewKindError(http.StatusBadGateway, "platform_query", "platform query failed")
	ErrAutomation          = response.NewKindError(http.StatusBadGateway, "automation", "automation primitive failed")
	ErrMissingParameter    = response.NewKindError(http.StatusBadRequest, "missing_parameter", "command is missing a required parameter")
	ErrUnsafeVolumeDelta   = response.NewKindError(http.StatusBadRequest, "unsafe_volume_delta", "volume change outside the safe range")
	ErrExecutionTimeout    = response.NewKindError(http.StatusGatewayTimeout, "execution_timeout", "command execution timed out")
	ErrNotListening        = response.NewKindError(http.StatusConflict, "not_listening", "listening is stopped")
)

// KindUnknownCommand tags results for transcripts that matched no intent.
// Not an error: the parser returning unknown is an expected outcome.
const KindUnknownCommand = "unknown_command"
