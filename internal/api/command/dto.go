package command

import "EchoOS/internal/entity"

type ParseRequest struct {
	Text string `json:"text" validate:"max=500"`
}

type ParseResponse struct {
	Command entity.Command `json:"command"`
}

type SubmitTranscriptRequest struct {
	Text string `json:"text" validate:"max=500"`
}

type SubmitTranscriptResponse struct {
	Command entity.Command       `json:"command"`
	Result  entity.CommandResult `json:"result"`
}

type ListeningStateResponse struct {
	Listening bool `json:"listening"`
}

// StreamEvent is the websocket frame pushed to the GUI shell: live partial
// transcripts plus the result of every dispatched final transcript.
type StreamEvent struct {
	Type       string                `json:"type"` // "partial", "final", "result", "state"
	Transcript *entity.Transcript    `json:"transcript,omitempty"`
	Command    *entity.Command       `json:"command,omitempty"`
	Result     *entity.CommandResult `json:"result,omitempty"`
	Listening  *bool                 `json:"listening,omitempty"`
}
