package accesslog

import (
	"fmt"
	"net/netip"
	"time"
)

// timestampLayout is the calendar half of a combined-format timestamp
// token, e.g. "10/Oct/2023:13:55:36".
const timestampLayout = "02/Jan/2006:15:04:05"

// LogRecord is the typed result of parsing one access-log line.
//
// Combined lines populate Method, RequestURI and Protocol; Bogus lines keep
// the quoted request line opaque in Request instead. All other fields are
// shared by both dialects. Timestamp always carries an explicit fixed UTC
// offset, never a naive wall clock.
//
// A record is freshly allocated for every parsed line and belongs to its
// caller; it must not be modified after Parse returns it.
type LogRecord struct {
	RemoteIP      netip.Addr `json:"remote_ip"`
	RemoteLogname string     `json:"remote_logname"`
	RemoteUser    string     `json:"remote_user"`
	Timestamp     time.Time  `json:"timestamp"`
	Method        string     `json:"http_method,omitempty"`
	RequestURI    string     `json:"request_uri,omitempty"`
	Protocol      string     `json:"request_protocol,omitempty"`
	Request       string     `json:"http_request,omitempty"`
	Status        int        `json:"response_status"`
	Size          int        `json:"response_size"`
	Referer       string     `json:"referer"`
	UserAgent     string     `json:"user_agent"`
}

// RequestLine returns the quoted request portion regardless of dialect:
// the opaque Request token when set, the joined triple otherwise.
func (r *LogRecord) RequestLine() string {
	if r.Request != "" {
		return r.Request
	}
	return r.Method + " " + r.RequestURI + " " + r.Protocol
}

// StatusClass buckets the response status into "1xx".."5xx". Statuses
// outside the HTTP range come back as "other"; the grammar admits any digit
// run, so misbehaving servers can log one.
func (r *LogRecord) StatusClass() string {
	if r.Status < 100 || r.Status > 599 {
		return "other"
	}
	return string('0'+byte(r.Status/100)) + "xx"
}

// String renders the record back into its combined-format line shape, with
// fields in declaration order.
func (r *LogRecord) String() string {
	return fmt.Sprintf("%s %s %s [%s] %q %d %d %q %q",
		r.RemoteIP, r.RemoteLogname, r.RemoteUser,
		r.Timestamp.Format(timestampLayout+" -0700"),
		r.RequestLine(), r.Status, r.Size, r.Referer, r.UserAgent)
}
