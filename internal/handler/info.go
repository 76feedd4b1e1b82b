package handler

import "net/http"

// Version is the API version reported by the root endpoint.
const Version = "1.0.0"

// InfoHandler serves the service metadata endpoints: the welcome page, the
// health probe and the capability listing. They carry no state, which is why
// this is the one handler without a service behind it besides the calculator.
type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// RootResponse is the body for GET /.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// HealthResponse is the body for GET /health. Monitoring systems poll this,
// so the shape stays minimal and stable.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// InfoResponse is the body for GET /api/info.
type InfoResponse struct {
	Name     string   `json:"name"`
	Purpose  string   `json:"purpose"`
	Features []string `json:"features"`
}

// HandleRoot handles GET /.
func (h *InfoHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: "Welcome to Solar API!",
		Version: Version,
		Status:  "running",
	})
}

// HandleHealth handles GET /health.
func (h *InfoHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "solar-api",
	})
}

// HandleInfo handles GET /api/info.
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:    "Solar API",
		Purpose: "Learning Go with a full-stack demo backend",
		Features: []string{
			"REST API endpoints",
			"Data processing",
			"Database integration",
			"Testing examples",
		},
	})
}
