package collector

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

// Collector exposes parse outcomes as Prometheus counters.
type Collector struct {
	Records       *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	ResponseBytes *prometheus.CounterVec
	RemoteClasses *prometheus.CounterVec
}

func NewCollector() *Collector {
	return &Collector{
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accesslog_records_total",
				Help: "Total number of successfully parsed access log records.",
			},
			[]string{"service", "format", "method", "status_class"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accesslog_parse_failures_total",
				Help: "Total number of lines the parser rejected.",
			},
			[]string{"service", "format", "reason"},
		),
		ResponseBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accesslog_response_bytes_total",
				Help: "Total number of response body bytes seen in parsed records.",
			},
			[]string{"service", "format"},
		),
		RemoteClasses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accesslog_remote_class_total",
				Help: "Parsed records by remote address class and country.",
			},
			[]string{"service", "class", "country"},
		),
	}
}

func (c *Collector) Register(reg prometheus.Registerer) {
	reg.MustRegister(c.Records, c.Failures, c.ResponseBytes, c.RemoteClasses)
}

// ObserveRecord accounts one successfully parsed record.
func (c *Collector) ObserveRecord(service string, format accesslog.Format, rec *accesslog.LogRecord) {
	method := rec.Method
	if method == "" {
		// Lenient dialect keeps the request opaque.
		method = "-"
	}

	c.Records.WithLabelValues(service, string(format), method, rec.StatusClass()).Inc()
	c.ResponseBytes.WithLabelValues(service, string(format)).Add(float64(rec.Size))
}

// ObserveFailure accounts one rejected line, labelled with the failure kind.
func (c *Collector) ObserveFailure(service string, format accesslog.Format, err error) {
	c.Failures.WithLabelValues(service, string(format), FailureReason(err)).Inc()
}

// ObserveRemote accounts the enriched remote address of one record.
func (c *Collector) ObserveRemote(service, class, country string) {
	c.RemoteClasses.WithLabelValues(service, class, country).Inc()
}

// FailureReason maps a parse error onto a bounded label value.
func FailureReason(err error) string {
	var (
		malformed *accesslog.MalformedLineError
		timestamp *accesslog.TimestampFormatError
		address   *accesslog.InvalidAddressError
		integer   *accesslog.InvalidIntegerError
	)
	switch {
	case errors.As(err, &malformed):
		return "malformed_line"
	case errors.As(err, &timestamp):
		return "bad_timestamp"
	case errors.As(err, &address):
		return "bad_address"
	case errors.As(err, &integer):
		return "bad_integer"
	default:
		return "other"
	}
}
