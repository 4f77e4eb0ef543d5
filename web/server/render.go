package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// PassUpdate represents a single progressive pass sent via SSE
type PassUpdate struct {
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG
	Stats          Stats  `json:"stats"`
	PrimitiveCount int    `json:"primitiveCount"`
	IsComplete     bool   `json:"isComplete"`
	ElapsedMs      int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	PassMs          float64 `json:"passMs"`
	RaysPerSecond   float64 `json:"raysPerSecond"`
	MeanLuminance   float64 `json:"meanLuminance"`
	StdDevLuminance float64 `json:"stdDevLuminance"`
}

// SSEEvent is one server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "console", "pass", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender streams progressive passes via SSE. All writes to w happen on
// the handler goroutine.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	startTime := time.Now()
	passChan, errChan := pipeline.Raytracer.RenderProgressive(ctx)

	if !s.handleRenderingEvents(ctx, w, consoleChan, passChan, errChan, pipeline.Scene, req, startTime) {
		return
	}

	s.flushConsole(w, consoleChan)
	s.writeSSEEvent(w, SSEEvent{Type: "complete", Data: "Rendering completed"})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan, s.logger)
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.loadScene(req)
	if err != nil {
		return nil, err
	}

	config := renderer.ProgressiveConfig{
		MaxPasses:  req.MaxPasses,
		Accumulate: true,
	}
	logger.Printf("Rendering %s at %dx%d (%d objects)\n", sceneObj.Name, req.Width, req.Height, sceneObj.GetPrimitiveCount())

	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: renderer.NewProgressiveRaytracer(sceneObj, sceneObj.SamplingConfig, config, logger),
	}, nil
}

// handleRenderingEvents runs the event loop until both render channels close.
// It reports false when the stream ended early on an error or disconnect.
func (s *Server) handleRenderingEvents(ctx context.Context, w http.ResponseWriter, consoleChan <-chan ConsoleMessage,
	passChan <-chan renderer.PassResult, errChan <-chan error,
	scene *scene.Scene, req *RenderRequest, startTime time.Time) bool {

	for passChan != nil || errChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			if err := s.handlePassComplete(w, passResult, req, scene, startTime); err != nil {
				s.logger.Printf("Error sending pass %d: %v\n", passResult.PassNumber, err)
				return false
			}

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if err != nil {
				s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
				return false
			}

		case msg := <-consoleChan:
			s.writeConsoleMessage(w, msg)

		case <-ctx.Done():
			// Client disconnected
			return false
		}
	}
	return true
}

// handlePassComplete encodes a finished pass and sends it to the client
func (s *Server) handlePassComplete(w http.ResponseWriter, passResult renderer.PassResult, req *RenderRequest, scene *scene.Scene, startTime time.Time) error {
	imageData, err := s.imageToBase64PNG(passResult.Image)
	if err != nil {
		return errors.Wrap(err, "failed to encode image")
	}

	update := PassUpdate{
		PassNumber:  passResult.PassNumber,
		TotalPasses: req.MaxPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:     passResult.Stats.TotalPixels,
			SamplesPerPixel: passResult.Stats.SamplesPerPixel,
			PassMs:          float64(passResult.Stats.Duration.Microseconds()) / 1000,
			RaysPerSecond:   passResult.Stats.RaysPerSecond,
			MeanLuminance:   passResult.Stats.MeanLuminance,
			StdDevLuminance: passResult.Stats.StdDevLuminance,
		},
		PrimitiveCount: scene.GetPrimitiveCount(),
		IsComplete:     passResult.IsLast,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.writeSSEEvent(w, SSEEvent{Type: "pass", Data: string(data)})
}

// flushConsole sends any console messages still queued
func (s *Server) flushConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.writeConsoleMessage(w, msg)
		default:
			return
		}
	}
}

func (s *Server) writeConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Printf("Error marshaling console message: %v\n", err)
		return
	}
	s.writeSSEEvent(w, SSEEvent{Type: "console", Data: string(data)})
}

// writeSSEEvent writes one event and flushes it to the client
func (s *Server) writeSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	var err error
	if req.MaxPasses, err = parseIntParam(r.URL.Query(), "maxPasses", renderer.DefaultProgressiveConfig().MaxPasses, 1, maxPassesLimit); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(r.URL.Query(), "maxDepth", s.sampling.MaxDepth, 1, maxDepthLimit); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.MaxPasses > 100 {
		s.logger.Printf("Render warning: Large image with many passes may render slowly\n")
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
