package daemon

// StartOptions configures the daemon (home, port, scheduler interval, supervisor, DB).
type StartOptions struct {
	Home        string
	Port        int
	IntervalSec float64
	Dev         bool
	PprofAddr   string
	Supervisor  string // "tmux" (default) or "stub"
	TmuxBin     string // override tmux binary path
	DBDriver    string // "sqlite" (default) or "postgres"
	DBURL       string // for postgres: connection string (or DATABASE_URL env)
	SeedDemo    bool   // seed the demo project on first start
	EnableOtel  bool   // enable OpenTelemetry metrics (Prometheus exporter + HTTP/SSE instrumentation)
}

// StatusInfo is the result of Status (running or not, PID, listen addr).
type StatusInfo struct {
	Running bool
	PID     int
	Addr    string
}
