package dto

import "github.com/SscSPs/heartchain_backend/internal/core/domain"

// ServiceHealthResponse is one component of the detailed health check.
type ServiceHealthResponse struct {
	Configured bool           `json:"configured"`
	Status     string         `json:"status"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// DetailedHealthResponse lists the state of every external collaborator.
type DetailedHealthResponse struct {
	Status   string                           `json:"status"`
	Services map[string]ServiceHealthResponse `json:"services"`
}

// ToDetailedHealthResponse converts a domain.HealthReport.
func ToDetailedHealthResponse(r domain.HealthReport) DetailedHealthResponse {
	status := "healthy"
	if !r.Healthy {
		status = "degraded"
	}
	services := make(map[string]ServiceHealthResponse, len(r.Components))
	for name, c := range r.Components {
		services[name] = ServiceHealthResponse{Configured: c.Configured, Status: c.Status, Detail: c.Detail}
	}
	return DetailedHealthResponse{Status: status, Services: services}
}
