package monitor

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

type CPUState struct {
	UsagePercent float64   `json:"usage_percent"`
	Cores        []float64 `json:"cores"`
}

type MemoryState struct {
	UsedBytes    uint64  `json:"used_bytes"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

// ProcessState describes the daemon's own process.
type ProcessState struct {
	PID      int32  `json:"pid"`
	RSSBytes uint64 `json:"rss_bytes"`
	Threads  int32  `json:"threads"`
}

type HostState struct {
	Hostname  string `json:"hostname"`
	UptimeSec uint64 `json:"uptime_sec"`
}

type SystemState struct {
	CPU       CPUState     `json:"cpu"`
	Memory    MemoryState  `json:"memory"`
	Process   ProcessState `json:"process"`
	Host      HostState    `json:"host"`
	Timestamp time.Time    `json:"timestamp"`
}

// Sampler collects system and self-process state on demand. Results are
// cached for a short window so status polling cannot hammer the OS.
type Sampler struct {
	cacheFor time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	last   *SystemState
	lastAt time.Time
	self   *process.Process
}

func NewSampler(cacheFor time.Duration, logger *slog.Logger) *Sampler {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warn("self process handle unavailable", "error", err)
	}
	return &Sampler{
		cacheFor: cacheFor,
		logger:   logger,
		self:     self,
	}
}

// Sample returns the current system state. Individual collectors that fail
// are logged and left zero rather than failing the whole sample.
func (s *Sampler) Sample() *SystemState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && time.Since(s.lastAt) < s.cacheFor {
		return s.last
	}

	state := &SystemState{Timestamp: time.Now()}

	if overall, err := cpu.Percent(0, false); err != nil {
		s.logger.Warn("cpu collection failed", "error", err)
	} else if len(overall) > 0 {
		state.CPU.UsagePercent = overall[0]
	}

	if cores, err := cpu.Percent(0, true); err == nil {
		state.CPU.Cores = cores
	}

	if v, err := mem.VirtualMemory(); err != nil {
		s.logger.Warn("memory collection failed", "error", err)
	} else {
		state.Memory = MemoryState{
			UsedBytes:    v.Used,
			TotalBytes:   v.Total,
			UsagePercent: v.UsedPercent,
		}
	}

	if s.self != nil {
		state.Process.PID = s.self.Pid
		if info, err := s.self.MemoryInfo(); err == nil {
			state.Process.RSSBytes = info.RSS
		}
		if threads, err := s.self.NumThreads(); err == nil {
			state.Process.Threads = threads
		}
	}

	if hostname, err := os.Hostname(); err == nil {
		state.Host.Hostname = hostname
	}
	if uptime, err := host.Uptime(); err == nil {
		state.Host.UptimeSec = uptime
	}

	s.last = state
	s.lastAt = time.Now()
	return state
}
