// Package tts speaks command feedback through espeak-ng. Best-effort: a
// missing binary degrades to silence, never to a pipeline failure.
package tts

import (
	"context"
	"os/exec"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

type ISpeaker interface {
	Speak(ctx context.Context, text string) error
}

type espeakSpeaker struct {
	binary  string
	rate    int
	volume  int
	timeout time.Duration
	log     *logrus.Logger
}

func New(log *logrus.Logger, rate int, volume int) ISpeaker {
	if rate <= 0 {
		rate = 175
	}
	if volume <= 0 || volume > 200 {
		volume = 100
	}

	return &espeakSpeaker{
		binary:  "espeak-ng",
		rate:    rate,
		volume:  volume,
		timeout: 30 * time.Second,
		log:     log,
	}
}

func (s *espeakSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Text goes in as a discrete argv element, never through a shell.
	cmd := exec.CommandContext(c, s.binary,
		"-s", strconv.Itoa(s.rate),
		"-a", strconv.Itoa(s.volume),
		"--", text,
	)

	if err := cmd.Run(); err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("TTS playback failed")
		return err
	}

	return nil
}
