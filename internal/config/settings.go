package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

// Settings are the user-tunable knobs read from config/settings.json.
// Thresholds live here, not in code: tightening voice matching must never
// require a rebuild.
type Settings struct {
	SimilarityThreshold   float64 `json:"similarity_threshold" validate:"gte=0,lte=1"`
	SessionTimeoutMinutes int     `json:"session_timeout_minutes" validate:"gte=1,lte=1440"`
	MinSampleSeconds      int     `json:"min_sample_seconds" validate:"gte=1,lte=60"`
	MatchThreshold        float64 `json:"match_threshold" validate:"gte=0,lte=1"`
	CommandTimeoutSeconds int     `json:"command_timeout_seconds" validate:"gte=1,lte=300"`
	VolumeStepMin         int     `json:"volume_step_min" validate:"gte=1"`
	VolumeStepMax         int     `json:"volume_step_max" validate:"gtefield=VolumeStepMin"`
	QueueSize             int     `json:"queue_size" validate:"gte=1,lte=1024"`
	SpeechRate            int     `json:"speech_rate" validate:"gte=80,lte=450"`
	SpeechVolume          int     `json:"speech_volume" validate:"gte=0,lte=200"`
}

func DefaultSettings() Settings {
	return Settings{
		SimilarityThreshold:   0.75,
		SessionTimeoutMinutes: 30,
		MinSampleSeconds:      3,
		MatchThreshold:        0.6,
		CommandTimeoutSeconds: 10,
		VolumeStepMin:         1,
		VolumeStepMax:         50,
		QueueSize:             16,
		SpeechRate:            175,
		SpeechVolume:          100,
	}
}

// LoadSettings reads the settings file, falling back to defaults when the
// file is absent. A present but invalid file is a startup error.
func LoadSettings(path string, validate *validator.Validate) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := DefaultSettings()
	if err := jsoniter.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := validate.Struct(settings); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}
