package commandHandler

import (
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"

	"EchoOS/internal/api/command"
)

var jsonStream = jsoniter.ConfigCompatibleWithStandardLibrary

// HandleStream pushes live pipeline events over a websocket. The read loop
// exists only to notice the peer going away.
func (h *CommandHandler) HandleStream(conn *websocket.Conn) {
	id, events := h.commandService.Pipeline().Subscribe()
	defer h.commandService.Pipeline().Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case update, ok := <-events:
			if !ok {
				return
			}

			frame := command.StreamEvent{
				Type:       update.Type,
				Transcript: update.Transcript,
				Command:    update.Command,
				Result:     update.Result,
				Listening:  update.Listening,
			}

			payload, err := jsonStream.Marshal(frame)
			if err != nil {
				h.log.WithError(err).Debug("Failed to encode stream event")
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
