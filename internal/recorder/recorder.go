package recorder

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

// SelfRecorder periodically samples this process's resource usage into
// Prometheus gauges, so the pipeline's own footprint shows up next to the
// parse counters it exports.
type SelfRecorder struct {
	interval time.Duration
	proc     *process.Process
	stop     chan struct{}

	cpuPct     prometheus.Gauge
	rssBytes   prometheus.Gauge
	goroutines prometheus.Gauge
}

func NewSelfRecorder(interval time.Duration) (*SelfRecorder, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}

	return &SelfRecorder{
		interval: interval,
		proc:     proc,
		stop:     make(chan struct{}),
		cpuPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "accesslog_process_cpu_percent",
			Help: "CPU usage of the pipeline process at last sample.",
		}),
		rssBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "accesslog_process_resident_bytes",
			Help: "Resident memory of the pipeline process at last sample.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "accesslog_goroutines",
			Help: "Goroutine count at last sample.",
		}),
	}, nil
}

func (r *SelfRecorder) Register(reg prometheus.Registerer) {
	reg.MustRegister(r.cpuPct, r.rssBytes, r.goroutines)
}

// Start begins the sampling loop.
func (r *SelfRecorder) Start() {
	log.Printf("SelfRecorder: sampling every %s", r.interval)
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.sample()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.sample()
			}
		}
	}()
}

// Stop ends the sampling loop.
func (r *SelfRecorder) Stop() {
	close(r.stop)
}

func (r *SelfRecorder) sample() {
	if cpu, err := r.proc.CPUPercent(); err == nil {
		r.cpuPct.Set(cpu)
	}
	if mem, err := r.proc.MemoryInfo(); err == nil {
		r.rssBytes.Set(float64(mem.RSS))
	}
	r.goroutines.Set(float64(runtime.NumGoroutine()))
}
