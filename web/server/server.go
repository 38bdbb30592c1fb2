package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/geometry"
	"github.com/MitrB/my-cgfs/pkg/material"
	"github.com/MitrB/my-cgfs/pkg/scene"
)

const (
	minDimension = 1
	maxDimension = 2000
	maxBounces   = 100

	maxRandomSpheres = 10000
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	materials *material.Table
}

// NewServer creates a new web server. Scene files are looked up in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		materials: material.DefaultTable(),
	}
}

// Handler returns the HTTP handler serving every API endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/materials", s.handleMaterials)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/render-stream", s.handleRenderStream)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MaterialInfo is the JSON view of a material
type MaterialInfo struct {
	Name         string    `json:"name"`
	Specular     core.Vec3 `json:"specular"`
	Diffuse      core.Vec3 `json:"diffuse"`
	Ambient      core.Vec3 `json:"ambient"`
	Shininess    float64   `json:"shininess"`
	Reflectivity float64   `json:"reflectivity"`
	RandomColor  bool      `json:"randomColor"`
}

// handleMaterials lists the material table in name order
func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	names := s.materials.Names()
	infos := make([]MaterialInfo, 0, len(names))
	for _, name := range names {
		m, err := s.materials.Lookup(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		infos = append(infos, MaterialInfo{
			Name:         m.Name,
			Specular:     m.Specular,
			Diffuse:      m.Diffuse,
			Ambient:      m.Ambient,
			Shininess:    m.Shininess,
			Reflectivity: m.Reflectivity,
			RandomColor:  m.HasRandomAmbient(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the settings of a scene together with the
// limits the render endpoints accept
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	settings, err := scene.ResolveSettings(sceneName, s.scenesDir)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene":    sceneName,
		"settings": settings,
		"limits": map[string]interface{}{
			"width":              map[string]int{"min": minDimension, "max": maxDimension},
			"height":             map[string]int{"min": minDimension, "max": maxDimension},
			"bounces":            map[string]int{"min": 0, "max": maxBounces},
			"randomSphereAmount": map[string]int{"min": 0, "max": maxRandomSpheres},
		},
	})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseSeedParam parses the optional seed parameter
func parseSeedParam(values url.Values) (int64, error) {
	value := values.Get("seed")
	if value == "" {
		return 0, nil
	}
	seed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed: %s", value)
	}
	return seed, nil
}

// statusFor maps scene construction errors to client errors
func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrInvalidSettings),
		errors.Is(err, scene.ErrInvalidScene),
		errors.Is(err, material.ErrUnknownMaterial),
		errors.Is(err, material.ErrInvalidMaterial),
		errors.Is(err, geometry.ErrInvalidRadius),
		errors.Is(err, geometry.ErrInvalidView):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
