package entity

import "time"

type CommandCategory string

const (
	CategorySystem        CommandCategory = "system"
	CategoryApp           CommandCategory = "app"
	CategoryFile          CommandCategory = "file"
	CategoryWeb           CommandCategory = "web"
	CategoryInfo          CommandCategory = "info"
	CategoryVolume        CommandCategory = "volume"
	CategoryAccessibility CommandCategory = "accessibility"
	CategoryControl       CommandCategory = "control"
)

// IntentUnknown is returned when no phrase clears the match threshold.
const IntentUnknown = "unknown"

// Transcript is one hypothesis from the recognizer. Partials update the live
// display only; finals enter the dispatch queue.
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	IsFinal    bool    `json:"is_final"`
}

type Command struct {
	Category   CommandCategory   `json:"category"`
	Intent     string            `json:"intent"`
	Parameters map[string]string `json:"parameters"`
	RawText    string            `json:"raw_text"`
	Confidence float64           `json:"confidence"`
}

func (c Command) IsUnknown() bool {
	return c.Intent == IntentUnknown
}

// UnknownCommand is the parse result for empty or unmatched transcripts.
func UnknownCommand(rawText string) Command {
	return Command{
		Category:   CategoryControl,
		Intent:     IntentUnknown,
		Parameters: map[string]string{},
		RawText:    rawText,
		Confidence: 0,
	}
}

type CommandResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// CommandLog is the durable activity record for an executed command.
type CommandLog struct {
	ID         string    `db:"id"`
	Username   string    `db:"username"`
	Transcript string    `db:"transcript"`
	Category   string    `db:"category"`
	Intent     string    `db:"intent"`
	Success    bool      `db:"success"`
	Message    string    `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
}
