package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MitrB/my-cgfs/pkg/scene"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	content := `{"meta": {"name": "Tiny"}, "resolution": [8, 6], "randomSpheres": false}`
	if err := os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return NewServer(0, dir), dir
}

func serve(t *testing.T, srv *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("Unexpected health body: %v (%v)", body, err)
	}
}

func TestHandleMaterials(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodGet, "/api/materials", "")

	var infos []MaterialInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(infos) != srv.materials.Len() {
		t.Fatalf("Expected %d materials, got %d", srv.materials.Len(), len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Errorf("Materials not sorted: %q before %q", infos[i-1].Name, infos[i].Name)
		}
	}
}

func TestHandleScenes(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodGet, "/api/scenes", "")

	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	found := false
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.ID == "file:tiny" && info.Name == "Tiny" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("Scene file missing from listing: %+v", response)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		target string
		status int
	}{
		{"/api/scene-config", http.StatusOK},
		{"/api/scene-config?scene=mirrors", http.StatusOK},
		{"/api/scene-config?scene=file:tiny", http.StatusOK},
		{"/api/scene-config?scene=nonexistent", http.StatusBadRequest},
		{"/api/scene-config?scene=file:../tiny", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRender(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name        string
		target      string
		body        string
		status      int
		contentType string
	}{
		{"named scene png", "/api/render?scene=spheres&width=10&height=8", "", http.StatusOK, "image/png"},
		{"scene file ppm", "/api/render?scene=file:tiny&format=ppm", "", http.StatusOK, "image/x-portable-pixmap"},
		{"json body", "/api/render?format=png", `{"resolution": [5, 4], "randomSpheres": false}`, http.StatusOK, "image/png"},
		{"unknown format", "/api/render?scene=spheres&format=gif", "", http.StatusBadRequest, "application/json"},
		{"width out of range", "/api/render?scene=spheres&width=0", "", http.StatusBadRequest, "application/json"},
		{"bad json", "/api/render", `{"resolution": `, http.StatusBadRequest, "application/json"},
		{"unknown field", "/api/render", `{"resolutoin": [4, 4]}`, http.StatusBadRequest, "application/json"},
		{"unknown material", "/api/render",
			`{"resolution": [4, 4], "randomSpheres": false, "spheres": [{"position": {"x": 0, "y": 0, "z": 5}, "radius": 1, "material": "unobtainium"}]}`,
			http.StatusBadRequest, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, srv, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Expected content type %q, got %q", tt.contentType, got)
			}
		})
	}
}

func TestHandleRender_BodyLimits(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"too many bounces", `{"resolution": [4, 4], "randomSpheres": false, "reflectionCount": 100000}`},
		{"too many random spheres", `{"resolution": [4, 4], "randomSphereAmount": 5000000}`},
		{"resolution too large", `{"resolution": [4, 20000], "randomSpheres": false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, srv, http.MethodPost, "/api/render?format=ppm", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	// Values at the limit are accepted
	rec := serve(t, srv, http.MethodPost, "/api/render?format=ppm",
		`{"resolution": [2, 2], "randomSpheres": false, "reflectionCount": 100}`)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 at the bounce limit, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSceneConfig_Limits(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodGet, "/api/scene-config", "")

	var body struct {
		Limits map[string]map[string]int `json:"limits"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Limits["bounces"]["max"] != maxBounces || body.Limits["randomSphereAmount"]["max"] != maxRandomSpheres {
		t.Errorf("Unexpected limits: %v", body.Limits)
	}
}

func TestHandleRender_PNGSize(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodPost, "/api/render?scene=spheres&width=12&height=7", "")

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 7 {
		t.Errorf("Expected 12x7 image, got %v", img.Bounds())
	}
}

func TestHandleRender_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodGet, "/api/render", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

// parseSSE splits a recorded SSE body into events
func parseSSE(t *testing.T, body string) []SSEEvent {
	t.Helper()
	var events []SSEEvent
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var event SSEEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				event.Type = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				event.Data = strings.TrimPrefix(line, "data: ")
			}
		}
		events = append(events, event)
	}
	return events
}

func TestHandleRenderStream(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodGet, "/api/render-stream?scene=spheres&width=9&height=5", "")

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("Expected SSE content type, got %q", got)
	}

	events := parseSSE(t, rec.Body.String())
	if len(events) == 0 {
		t.Fatal("No events streamed")
	}

	counts := map[string]int{}
	for _, event := range events {
		counts[event.Type]++
	}
	if counts["console"] == 0 || counts["progress"] == 0 {
		t.Errorf("Expected console and progress events, got %v", counts)
	}

	last := events[len(events)-1]
	if last.Type != "complete" {
		t.Fatalf("Expected final complete event, got %q", last.Type)
	}
	var summary RenderSummary
	if err := json.Unmarshal([]byte(last.Data), &summary); err != nil {
		t.Fatalf("Invalid summary: %v", err)
	}
	if summary.Width != 9 || summary.Height != 5 || summary.Pixels != 45 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	raw, err := base64.StdEncoding.DecodeString(summary.ImageData)
	if err != nil {
		t.Fatalf("Invalid image data: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil || img.Bounds().Dx() != 9 {
		t.Errorf("Unexpected streamed image: %v", err)
	}
}

func TestHandleRenderStream_Error(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := serve(t, srv, http.MethodGet, "/api/render-stream?scene=nonexistent", "")

	events := parseSSE(t, rec.Body.String())
	if len(events) != 1 || events[0].Type != "error" {
		t.Fatalf("Expected a single error event, got %+v", events)
	}
	if !strings.Contains(events[0].Data, "Invalid request") {
		t.Errorf("Unexpected error payload: %s", events[0].Data)
	}
}
