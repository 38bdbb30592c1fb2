package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/output"
	"github.com/MitrB/my-cgfs/pkg/renderer"
	"github.com/MitrB/my-cgfs/pkg/scene"
)

// maxBodyBytes bounds the JSON settings accepted by POST /api/render
const maxBodyBytes = 1 << 20

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate is sent after every finished tile
type ProgressUpdate struct {
	TileNumber int `json:"tileNumber"`
	TotalTiles int `json:"totalTiles"`
}

// RenderSummary describes a finished render
type RenderSummary struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	ImageData  string  `json:"imageData,omitempty"` // base64 PNG, stream only
	Pixels     int     `json:"pixels"`
	Hits       int     `json:"hits"`
	Absorbed   int     `json:"absorbed"`
	Escaped    int     `json:"escaped"`
	Exhausted  int     `json:"exhausted"`
	ShadeCalls float64 `json:"avgShadeCalls"`
	ElapsedMs  int64   `json:"elapsedMs"`
}

func newRenderSummary(fb *renderer.Framebuffer, stats renderer.RenderStats) RenderSummary {
	return RenderSummary{
		Width:      fb.Width,
		Height:     fb.Height,
		Pixels:     stats.TotalPixels,
		Hits:       stats.Hits,
		Absorbed:   stats.Absorbed,
		Escaped:    stats.Escaped,
		Exhausted:  stats.Exhausted,
		ShadeCalls: stats.AverageShadeCalls(),
		ElapsedMs:  stats.Duration.Milliseconds(),
	}
}

// renderSettings resolves the settings of a render request. A non-empty JSON
// body replaces the named scene; query parameters override either.
func (s *Server) renderSettings(r *http.Request) (scene.Settings, error) {
	values := r.URL.Query()

	var settings scene.Settings
	var err error
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	raw := new(bytes.Buffer)
	if r.Body != nil {
		if _, err := raw.ReadFrom(body); err != nil {
			return scene.Settings{}, fmt.Errorf("read body: %w", err)
		}
	}
	if len(bytes.TrimSpace(raw.Bytes())) > 0 {
		settings, err = scene.DecodeSettings(raw)
	} else {
		sceneName := values.Get("scene")
		if sceneName == "" {
			sceneName = "default"
		}
		settings, err = scene.ResolveSettings(sceneName, s.scenesDir)
	}
	if err != nil {
		return scene.Settings{}, err
	}

	if err := applyQueryOverrides(&settings, values); err != nil {
		return scene.Settings{}, err
	}
	// Debug output goes to the server log for every render otherwise
	settings.Debug = false
	return settings, nil
}

// applyQueryOverrides copies width, height, seed and bounces from the query
func applyQueryOverrides(settings *scene.Settings, values url.Values) error {
	width, err := parseIntParam(values, "width", settings.Resolution[0], minDimension, maxDimension)
	if err != nil {
		return err
	}
	height, err := parseIntParam(values, "height", settings.Resolution[1], minDimension, maxDimension)
	if err != nil {
		return err
	}
	bounces, err := parseIntParam(values, "bounces", settings.ReflectionCount, 0, maxBounces)
	if err != nil {
		return err
	}
	seed, err := parseSeedParam(values)
	if err != nil {
		return err
	}

	settings.Resolution = [2]int{width, height}
	settings.ReflectionCount = bounces
	if seed != 0 {
		settings.Seed = seed
	}
	return checkLimits(*settings)
}

// checkLimits bounds the work of a single request, whether the values came
// from the query, a JSON body or a scene file
func checkLimits(settings scene.Settings) error {
	width, height := settings.Resolution[0], settings.Resolution[1]
	if width < minDimension || width > maxDimension || height < minDimension || height > maxDimension {
		return fmt.Errorf("resolution %dx%d outside %d..%d", width, height, minDimension, maxDimension)
	}
	if settings.ReflectionCount < 0 || settings.ReflectionCount > maxBounces {
		return fmt.Errorf("reflectionCount must be between 0 and %d, got: %d", maxBounces, settings.ReflectionCount)
	}
	if settings.RandomSpheres && (settings.RandomSphereAmount < 0 || settings.RandomSphereAmount > maxRandomSpheres) {
		return fmt.Errorf("randomSphereAmount must be between 0 and %d, got: %d", maxRandomSpheres, settings.RandomSphereAmount)
	}
	return nil
}

// render builds and renders the settings, logging through logger
func (s *Server) render(ctx context.Context, settings scene.Settings, logger core.Logger, onTile func(renderer.TileCompletionResult)) (*renderer.Framebuffer, renderer.RenderStats, error) {
	sc, err := scene.Build(settings, s.materials, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	r := renderer.NewRenderer(sc, nil, renderer.DefaultConfig(), logger)
	return r.RenderWithProgress(ctx, onTile)
}

// handleRender renders a scene and returns the image. The format query
// parameter selects png (default) or ppm.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	formatName := r.URL.Query().Get("format")
	if formatName == "" {
		formatName = string(output.FormatPNG)
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	settings, err := s.renderSettings(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logger := NewWebLogger(newRenderID(), nil)
	fb, stats, err := s.render(r.Context(), settings, logger, nil)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, fb, format); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

// handleRenderStream renders a scene while streaming console output and tile
// progress via SSE. The final event carries the image as base64 PNG.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(w, ctx, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	settings, err := s.renderSettings(r)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	webLogger := s.setupConsoleLogging(sseEventChan)
	onTile := func(result renderer.TileCompletionResult) {
		data, err := json.Marshal(ProgressUpdate{TileNumber: result.TileNumber, TotalTiles: result.TotalTiles})
		if err != nil {
			return
		}
		select {
		case sseEventChan <- SSEEvent{Type: "progress", Data: string(data)}:
		default:
		}
	}

	fb, stats, err := s.render(ctx, settings, webLogger, onTile)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", map[string]string{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, fb); err != nil {
		s.sendEvent(ctx, sseEventChan, "error", map[string]string{"error": err.Error()})
		return
	}
	summary := newRenderSummary(fb, stats)
	summary.ImageData = base64.StdEncoding.EncodeToString(buf.Bytes())
	s.sendEvent(ctx, sseEventChan, "complete", summary)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates a web logger streaming into the event channel
func (s *Server) setupConsoleLogging(sseEventChan chan<- SSEEvent) core.Logger {
	return NewWebLogger(newRenderID(), sseEventChan)
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// writeSSEEvents handles writing all SSE events in a single goroutine. It
// drains the channel until it is closed so senders never block on a
// disconnected client.
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	connected := true
	for event := range sseEventChan {
		if !connected {
			continue
		}
		if ctx.Err() != nil {
			connected = false
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			connected = false
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}
