package domain

// ComponentStatus values reported by the detailed health check.
const (
	ComponentConnected     = "connected"
	ComponentNotConfigured = "not_configured"
	ComponentUnreachable   = "unreachable"
)

// ComponentHealth is the status of one external collaborator.
type ComponentHealth struct {
	Configured bool
	Status     string
	Detail     map[string]any
}

// HealthReport aggregates component health.
type HealthReport struct {
	Healthy    bool
	Components map[string]ComponentHealth
}
