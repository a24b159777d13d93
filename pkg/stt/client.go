// Package stt bridges a local recognizer daemon (vosk-server wire protocol)
// into a stream of transcript events.
package stt

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"EchoOS/internal/entity"
)

type IRecognizer interface {
	// Stream dials the recognizer and forwards transcript events until the
	// context is cancelled or the connection drops.
	Stream(ctx context.Context, out chan<- entity.Transcript) error
}

type recognizerClient struct {
	url          string
	dialTimeout  time.Duration
	pingInterval time.Duration
	log          *logrus.Logger
}

// voskFrame mirrors the recognizer's JSON output: "partial" while the
// utterance is in flight, "text" plus word confidences once final.
type voskFrame struct {
	Partial string `json:"partial"`
	Text    string `json:"text"`
	Result  []struct {
		Conf float64 `json:"conf"`
		Word string  `json:"word"`
	} `json:"result"`
}

func NewRecognizer(log *logrus.Logger) IRecognizer {
	url := os.Getenv("RECOGNIZER_WS_URL")
	if url == "" {
		url = "ws://127.0.0.1:2700"
	}

	return &recognizerClient{
		url:          url,
		dialTimeout:  10 * time.Second,
		pingInterval: 30 * time.Second,
		log:          log,
	}
}

func (r *recognizerClient) Stream(ctx context.Context, out chan<- entity.Transcript) error {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = r.dialTimeout

	conn, _, err := dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"url":   r.url,
			"error": err.Error(),
		}).Error("Failed to connect to recognizer")
		return err
	}
	defer conn.Close()

	r.log.WithField("url", r.url).Info("Connected to recognizer")

	go func() {
		ticker := time.NewTicker(r.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-ticker.C:
				conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.log.WithError(err).Warn("Recognizer stream closed")
			return err
		}

		var frame voskFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			r.log.WithError(err).Debug("Skipping malformed recognizer frame")
			continue
		}

		transcript, ok := makeTranscript(frame)
		if !ok {
			continue
		}

		select {
		case out <- transcript:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func makeTranscript(frame voskFrame) (entity.Transcript, bool) {
	if frame.Text != "" {
		confidence := 1.0
		if len(frame.Result) > 0 {
			sum := 0.0
			for _, w := range frame.Result {
				sum += w.Conf
			}
			confidence = sum / float64(len(frame.Result))
		}
		return entity.Transcript{
			Text:       frame.Text,
			Confidence: confidence,
			IsFinal:    true,
		}, true
	}

	if frame.Partial != "" {
		return entity.Transcript{
			Text:       frame.Partial,
			Confidence: 0,
			IsFinal:    false,
		}, true
	}

	return entity.Transcript{}, false
}
