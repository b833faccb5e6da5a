// Package observability aggregates the runtime counters of the delivery core
// and the resource usage of the server process.
package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ProcessStats is the last resource sample of the server process.
type ProcessStats struct {
	PID        int32
	Status     string
	CPUPercent float64
	RSSBytes   uint64
	SampledAt  time.Time
}

// MonitoringStats is a point in time view of the counters.
type MonitoringStats struct {
	MessagesStored    uint64  `json:"messages_stored"`
	ScheduledPromoted uint64  `json:"scheduled_promoted"`
	PushesDelivered   uint64  `json:"pushes_delivered"`
	PushesFailed      uint64  `json:"pushes_failed"`
	AllocMemMb        uint64  `json:"alloc_mem_mb"`
	NumGC             uint32  `json:"num_gc"`
	Goroutines        int     `json:"goroutines"`
	ProcessStatus     string  `json:"process_status,omitempty"`
	ProcessCPUPercent float64 `json:"process_cpu_percent"`
	ProcessRSSMb      uint64  `json:"process_rss_mb"`
}

// MonitoringManager counts what the delivery core does. Counters are atomic,
// a nil manager is a valid no-op so components can run without monitoring.
type MonitoringManager struct {
	log *slog.Logger

	messagesStored    atomic.Uint64
	scheduledPromoted atomic.Uint64
	pushesDelivered   atomic.Uint64
	pushesFailed      atomic.Uint64

	mu      sync.RWMutex
	process ProcessStats
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log}
}

func (mm *MonitoringManager) IncrMessagesStored() {
	if mm != nil {
		mm.messagesStored.Add(1)
	}
}

func (mm *MonitoringManager) IncrScheduledPromoted() {
	if mm != nil {
		mm.scheduledPromoted.Add(1)
	}
}

func (mm *MonitoringManager) AddPushes(delivered, failed int) {
	if mm == nil {
		return
	}
	mm.pushesDelivered.Add(uint64(delivered))
	mm.pushesFailed.Add(uint64(failed))
}

// RecordProcess stores the latest process sample.
func (mm *MonitoringManager) RecordProcess(stats ProcessStats) {
	if mm == nil {
		return
	}
	mm.mu.Lock()
	mm.process = stats
	mm.mu.Unlock()

	mm.log.Debug("Process sampled",
		"pid", stats.PID,
		"status", stats.Status,
		"cpu_percent", stats.CPUPercent,
		"rss_mb", stats.RSSBytes/1024/1024)
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	if mm == nil {
		return MonitoringStats{}
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.RLock()
	process := mm.process
	mm.mu.RUnlock()

	return MonitoringStats{
		MessagesStored:    mm.messagesStored.Load(),
		ScheduledPromoted: mm.scheduledPromoted.Load(),
		PushesDelivered:   mm.pushesDelivered.Load(),
		PushesFailed:      mm.pushesFailed.Load(),
		AllocMemMb:        m.Alloc / 1024 / 1024,
		NumGC:             m.NumGC,
		Goroutines:        runtime.NumGoroutine(),
		ProcessStatus:     process.Status,
		ProcessCPUPercent: process.CPUPercent,
		ProcessRSSMb:      process.RSSBytes / 1024 / 1024,
	}
}

// AsMap flattens the stats for the debug page.
func (s MonitoringStats) AsMap() map[string]any {
	return map[string]any{
		"messages_stored":     s.MessagesStored,
		"scheduled_promoted":  s.ScheduledPromoted,
		"pushes_delivered":    s.PushesDelivered,
		"pushes_failed":       s.PushesFailed,
		"alloc_mem_mb":        s.AllocMemMb,
		"num_gc":              s.NumGC,
		"goroutines":          s.Goroutines,
		"process_status":      s.ProcessStatus,
		"process_cpu_percent": s.ProcessCPUPercent,
		"process_rss_mb":      s.ProcessRSSMb,
	}
}
