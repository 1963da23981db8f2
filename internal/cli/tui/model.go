package tui

import (
	"time"
)

// Config holds TUI configuration
type Config struct {
	ServerURL       string
	RefreshInterval time.Duration
	User            string
	Password        string
}

// Model represents the TUI state
type Model struct {
	config Config

	// Data from API
	status    *StatusData
	modelInfo *ModelInfoData

	// UI state
	width       int
	height      int
	loading     bool
	err         error
	lastUpdated time.Time
}

// StatusData represents the /status endpoint response
type StatusData struct {
	Version string       `json:"version"`
	System  SystemStatus `json:"system"`
	Loaded  bool         `json:"model_loaded"`
}

type SystemStatus struct {
	CPU     CPUStatus     `json:"cpu"`
	Memory  MemoryStatus  `json:"memory"`
	Process ProcessStatus `json:"process"`
	Host    HostStatus    `json:"host"`
}

type CPUStatus struct {
	UsagePercent float64 `json:"usage_percent"`
}

type MemoryStatus struct {
	UsagePercent float64 `json:"usage_percent"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
}

type ProcessStatus struct {
	PID      int    `json:"pid"`
	RSSBytes uint64 `json:"rss_bytes"`
	Threads  int    `json:"threads"`
}

type HostStatus struct {
	Hostname  string `json:"hostname"`
	UptimeSec uint64 `json:"uptime_sec"`
}

// ModelInfoData represents the /model/info endpoint response
type ModelInfoData struct {
	Loaded   bool         `json:"loaded"`
	Model    string       `json:"model"`
	Features []string     `json:"features"`
	Artifact ArtifactInfo `json:"artifact"`
}

type ArtifactInfo struct {
	Exists    bool      `json:"exists"`
	Path      string    `json:"path"`
	Size      int64     `json:"size,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	return Model{
		config:  cfg,
		loading: true,
	}
}
