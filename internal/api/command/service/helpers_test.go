package commandService

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// mockUtilsCommand satisfies utils.IUtils for executor and pipeline tests.
type mockUtilsCommand struct {
	mu  sync.Mutex
	seq int
}

func (m *mockUtilsCommand) NewULIDFromTimestamp(t time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("01TESTULID%016d", m.seq), nil
}

func (m *mockUtilsCommand) ValidateAudioSample(sample []byte, minDuration time.Duration) error {
	return nil
}

func (m *mockUtilsCommand) DecodePCM(sample []byte) ([]float32, int, error) {
	return nil, 0, errors.New("not implemented")
}
