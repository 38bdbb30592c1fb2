package server

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MitrB/my-cgfs/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by writing to the server log and, when a
// render is streamed, forwarding each message as a console SSE event.
type WebLogger struct {
	renderID string
	events   chan<- SSEEvent
}

// NewWebLogger creates a new web logger for a specific render. events may be
// nil for renders that are not streamed.
func NewWebLogger(renderID string, events chan<- SSEEvent) core.Logger {
	return &WebLogger{
		renderID: renderID,
		events:   events,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", wl.renderID, strings.TrimRight(message, "\n"))

	if wl.events == nil {
		return
	}
	data, err := json.Marshal(ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	})
	if err != nil {
		return
	}

	// Never block the render on a slow client
	select {
	case wl.events <- SSEEvent{Type: "console", Data: string(data)}:
	default:
	}
}
