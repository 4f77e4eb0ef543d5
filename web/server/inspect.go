package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	ObjectIndex  int                    `json:"objectIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Shading      float64                `json:"shading"` // max(0, n·-L) at the hit
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord geometry.HitRecord
	Index     int
	Object    geometry.Object
}

// inspectPixel casts the camera ray through a pixel and returns the nearest hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	ray := sceneObj.GetCamera().GetRay(pixelX, pixelY)
	objects := sceneObj.GetObjects()
	config := sceneObj.SamplingConfig

	hit, index, isHit := geometry.HitNearest(objects, ray, config.TMin, config.TMax)
	if !isHit {
		return InspectResult{Hit: false, Index: -1}
	}
	return InspectResult{
		Hit:       true,
		HitRecord: hit,
		Index:     index,
		Object:    objects[index],
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(object geometry.Object) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch object.Kind {
	case geometry.KindSphere:
		sphere := object.Sphere
		properties["center"] = vecArray(sphere.Center)
		properties["radius"] = sphere.Radius
		properties["albedo"] = vecArray(sphere.Color)
		rgb := renderer.ColorToRGB(sphere.Color)
		properties["color"] = fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
		return object.Kind.String(), properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.loadScene(inspectReq)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ObjectIndex: -1})
		return
	}

	geometryType, properties := s.extractGeometryInfo(result.Object)
	hit := result.HitRecord
	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		ObjectIndex:  result.Index,
		Point:        vecArray(hit.Position),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Shading:      max(0, hit.Normal.Dot(renderer.LightDirection.Negate())),
		Properties:   properties,
	}
	writeJSON(w, http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
