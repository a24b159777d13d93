package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateAudioSample(sample []byte, minDuration time.Duration) error
	DecodePCM(sample []byte) ([]float32, int, error)
}

type utils struct {
	maxSampleSize int64
}

func New() IUtils {
	return &utils{
		maxSampleSize: 10 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

var (
	ErrNotWAV          = errors.New("sample is not a PCM WAV file")
	ErrSampleTooLarge  = errors.New("sample exceeds size limit")
	ErrSampleTooShort  = errors.New("sample shorter than minimum duration")
	ErrSampleSilent    = errors.New("sample contains only silence")
	ErrUnsupportedWAV  = errors.New("only 16-bit mono PCM is supported")
	errTruncatedHeader = errors.New("truncated WAV header")
)

// silenceFloor is the minimum normalized peak amplitude for a sample to
// count as speech rather than a dead microphone.
const silenceFloor = 1.0 / 1024

type wavInfo struct {
	sampleRate uint32
	bitDepth   uint16
	channels   uint16
	dataOffset int
	dataLen    int
}

func parseWAV(sample []byte) (wavInfo, error) {
	if len(sample) < 44 {
		return wavInfo{}, errTruncatedHeader
	}
	if !bytes.Equal(sample[0:4], []byte("RIFF")) || !bytes.Equal(sample[8:12], []byte("WAVE")) {
		return wavInfo{}, ErrNotWAV
	}

	var info wavInfo
	off := 12
	for off+8 <= len(sample) {
		chunkID := sample[off : off+4]
		chunkLen := int(binary.LittleEndian.Uint32(sample[off+4 : off+8]))
		body := off + 8

		switch {
		case bytes.Equal(chunkID, []byte("fmt ")):
			if body+16 > len(sample) {
				return wavInfo{}, errTruncatedHeader
			}
			info.channels = binary.LittleEndian.Uint16(sample[body+2 : body+4])
			info.sampleRate = binary.LittleEndian.Uint32(sample[body+4 : body+8])
			info.bitDepth = binary.LittleEndian.Uint16(sample[body+14 : body+16])
		case bytes.Equal(chunkID, []byte("data")):
			if body+chunkLen > len(sample) {
				chunkLen = len(sample) - body
			}
			info.dataOffset = body
			info.dataLen = chunkLen
		}

		if chunkLen%2 == 1 {
			chunkLen++
		}
		off = body + chunkLen
	}

	if info.sampleRate == 0 || info.dataLen == 0 {
		return wavInfo{}, ErrNotWAV
	}

	return info, nil
}

// ValidateAudioSample checks that the sample is a mono 16-bit PCM WAV at
// least minDuration long. Duration comes from the header, not wall time.
func (u *utils) ValidateAudioSample(sample []byte, minDuration time.Duration) error {
	if int64(len(sample)) > u.maxSampleSize {
		return ErrSampleTooLarge
	}

	info, err := parseWAV(sample)
	if err != nil {
		return err
	}

	if info.channels != 1 || info.bitDepth != 16 {
		return ErrUnsupportedWAV
	}

	bytesPerSecond := int(info.sampleRate) * 2
	duration := time.Duration(info.dataLen) * time.Second / time.Duration(bytesPerSecond)
	if duration < minDuration {
		return ErrSampleTooShort
	}

	pcm, _, err := u.DecodePCM(sample)
	if err != nil {
		return err
	}

	var peak float32
	for _, v := range pcm {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak < silenceFloor {
		return ErrSampleSilent
	}

	return nil
}

// DecodePCM converts the WAV data chunk to normalized float32 samples and
// returns the sample rate alongside.
func (u *utils) DecodePCM(sample []byte) ([]float32, int, error) {
	info, err := parseWAV(sample)
	if err != nil {
		return nil, 0, err
	}
	if info.channels != 1 || info.bitDepth != 16 {
		return nil, 0, ErrUnsupportedWAV
	}

	data := sample[info.dataOffset : info.dataOffset+info.dataLen]
	out := make([]float32, len(data)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		out[i] = float32(v) / 32768.0
	}

	return out, int(info.sampleRate), nil
}
