package stats

import (
	"sync"
	"time"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

const rateWindow = 5 * time.Second

// ServiceStats holds per-service totals.
type ServiceStats struct {
	Records    int64     `json:"records"`
	Failures   int64     `json:"failures"`
	BytesSent  int64     `json:"bytes_sent"`
	LastRecord time.Time `json:"last_record"`
}

// Snapshot is a point-in-time view of everything the pipeline has seen.
type Snapshot struct {
	Uptime        string                  `json:"uptime"`
	TotalRecords  int64                   `json:"total_records"`
	TotalFailures int64                   `json:"total_failures"`
	RecordsPerSec float64                 `json:"records_per_sec"`
	StatusClasses map[string]int64        `json:"status_classes"`
	Services      map[string]ServiceStats `json:"services"`
}

// Aggregator accumulates parse outcomes for the HTTP API. All methods are
// safe for concurrent use by the worker pool.
type Aggregator struct {
	mu            sync.RWMutex
	startTime     time.Time
	totalRecords  int64
	totalFailures int64
	statusClasses map[string]int64
	services      map[string]*ServiceStats
	window        []time.Time // arrival times inside rateWindow
}

func New() *Aggregator {
	return &Aggregator{
		startTime:     time.Now(),
		statusClasses: make(map[string]int64),
		services:      make(map[string]*ServiceStats),
	}
}

// Record accounts one successfully parsed record.
func (a *Aggregator) Record(service string, rec *accesslog.LogRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRecords++
	a.statusClasses[rec.StatusClass()]++

	s := a.service(service)
	s.Records++
	s.BytesSent += int64(rec.Size)
	s.LastRecord = time.Now()

	a.window = append(a.window, time.Now())
	a.pruneLocked()
}

// Failure accounts one rejected line.
func (a *Aggregator) Failure(service string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalFailures++
	a.service(service).Failures++
}

// Snapshot returns a copy of the current totals.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pruneLocked()

	classes := make(map[string]int64, len(a.statusClasses))
	for k, v := range a.statusClasses {
		classes[k] = v
	}
	services := make(map[string]ServiceStats, len(a.services))
	for k, v := range a.services {
		services[k] = *v
	}

	return Snapshot{
		Uptime:        time.Since(a.startTime).Truncate(time.Second).String(),
		TotalRecords:  a.totalRecords,
		TotalFailures: a.totalFailures,
		RecordsPerSec: float64(len(a.window)) / rateWindow.Seconds(),
		StatusClasses: classes,
		Services:      services,
	}
}

func (a *Aggregator) service(name string) *ServiceStats {
	s, ok := a.services[name]
	if !ok {
		s = &ServiceStats{}
		a.services[name] = s
	}
	return s
}

func (a *Aggregator) pruneLocked() {
	cutoff := time.Now().Add(-rateWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
