package model

// ServerInfoSnapshot describes the running server. It is computed per request.
type ServerInfoSnapshot struct {
	ServerName     string  `json:"serverName"`
	Version        string  `json:"version"`
	Uptime         float64 `json:"uptime"`
	Timestamp      string  `json:"timestamp"`
	RuntimeVersion string  `json:"runtimeVersion"`
	Environment    string  `json:"environment"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}
