package voiceprint

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// wsExtractor talks to a local embedding daemon over a loopback websocket.
// The daemon receives one binary WAV message and answers with a JSON frame
// carrying the embedding vector.
type wsExtractor struct {
	url          string
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	log          *logrus.Logger
	mu           sync.Mutex
}

type extractorFrame struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

func NewWSExtractor(log *logrus.Logger) Extractor {
	url := os.Getenv("EXTRACTOR_WS_URL")
	if url == "" {
		url = "ws://127.0.0.1:2701"
	}

	return &wsExtractor{
		url:          url,
		dialTimeout:  5 * time.Second,
		readTimeout:  15 * time.Second,
		writeTimeout: 5 * time.Second,
		log:          log,
	}
}

func (e *wsExtractor) Available() bool {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = e.dialTimeout

	conn, _, err := dialer.Dial(e.url, nil)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (e *wsExtractor) Extract(ctx context.Context, sample []byte) ([]float64, error) {
	if len(sample) == 0 {
		return nil, ErrEmptySample
	}

	// One connection per extraction; the daemon is loopback-local and the
	// handshake cost is dwarfed by the embedding compute.
	e.mu.Lock()
	defer e.mu.Unlock()

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = e.dialTimeout

	conn, _, err := dialer.DialContext(ctx, e.url, nil)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"url":   e.url,
			"error": err.Error(),
		}).Warn("Extractor daemon unreachable")
		return nil, ErrUnavailable
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	} else {
		conn.SetWriteDeadline(time.Now().Add(e.writeTimeout))
		conn.SetReadDeadline(time.Now().Add(e.readTimeout))
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, sample); err != nil {
		return nil, ErrUnavailable
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, ErrUnavailable
	}

	var frame extractorFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		e.log.WithError(err).Error("Malformed extractor response")
		return nil, ErrUnavailable
	}
	if frame.Error != "" {
		e.log.WithField("daemon_error", frame.Error).Warn("Extractor rejected sample")
		return nil, ErrUnavailable
	}
	if len(frame.Embedding) != EmbeddingDim {
		return nil, ErrDimMismatch
	}

	return frame.Embedding, nil
}
