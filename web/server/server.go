package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Request limits shared by the render and inspect endpoints
const (
	minWidth, maxWidth   = 16, 2000
	minHeight, maxHeight = 9, 2000
	maxPassesLimit       = 10000
	maxDepthLimit        = 64
)

// Server handles web requests for the sphere tracer
type Server struct {
	port      int
	scenesDir string
	sampling  renderer.SamplingConfig // Base sampling settings; requests may override depth
	logger    core.Logger
}

// NewServer creates a new web server. Scene files are discovered in scenesDir.
func NewServer(port int, scenesDir string, sampling renderer.SamplingConfig, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		sampling:  sampling,
		logger:    logger,
	}
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene     string `json:"scene"`     // Scene id (e.g., "default", "file:spheres")
	Width     int    `json:"width"`     // Image width
	Height    int    `json:"height"`    // Image height
	MaxPasses int    `json:"maxPasses"` // Number of progressive passes
	MaxDepth  int    `json:"maxDepth"`  // Bounce budget per primary ray
}

// Handler returns the HTTP handler serving every API endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Printf("Starting web server on http://localhost:%d\n", s.port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "web server")
		}
		return nil
	})
	g.Go(func() error {
		// Also released when ListenAndServe fails
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down web server")
		}
		return nil
	})
	return g.Wait()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir, s.logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenes: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = scene.DefaultSceneID
	}

	sceneObj, err := s.openScene(sceneID, 0, 0)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := sceneObj.CameraConfig
	response := map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":          config.Width,
			"height":         config.Height,
			"vfov":           config.VFov,
			"maxDepth":       s.sampling.MaxDepth,
			"primitiveCount": sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width":     map[string]int{"min": minWidth, "max": maxWidth},
			"height":    map[string]int{"min": minHeight, "max": maxHeight},
			"maxPasses": map[string]int{"min": 1, "max": maxPassesLimit},
			"maxDepth":  map[string]int{"min": 1, "max": maxDepthLimit},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams parses the scene and image size shared by all endpoints
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = scene.DefaultSceneID
	}

	defaults := scene.DefaultCameraConfig()
	var err error
	if req.Width, err = parseIntParam(query, "width", defaults.Width, minWidth, maxWidth); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", defaults.Height, minHeight, maxHeight); err != nil {
		return err
	}
	return nil
}

// openScene loads a built-in or scenes-dir scene by id. Literal file paths
// are refused so requests cannot read files outside scenesDir.
func (s *Server) openScene(id string, width, height int) (*scene.Scene, error) {
	sceneObj, err := scene.LoadNamed(id, s.scenesDir, width, height)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load scene %s", id)
	}
	return sceneObj, nil
}

// sceneErrorStatus maps a scene loading error to an HTTP status
func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) || errors.Is(err, scene.ErrInvalidScene) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// loadScene builds the requested scene with the server's sampling settings
func (s *Server) loadScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.openScene(req.Scene, req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	sceneObj.SamplingConfig = s.sampling
	if req.MaxDepth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}
	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
