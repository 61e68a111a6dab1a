package dto

// RootResponse is the service banner.
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse reports liveness and database connectivity.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Supabase    string `json:"supabase"`
}

// DiagnosticsConfig shows which settings are present.
type DiagnosticsConfig struct {
	HasAPIKey   bool   `json:"has_api_key"`
	FrontendURL string `json:"frontend_url"`
	BackendURL  string `json:"backend_url"`
}

// DiagnosticsResponse is served by the payment test endpoint.
type DiagnosticsResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Config   DiagnosticsConfig `json:"config"`
	Database string            `json:"database"`
}
