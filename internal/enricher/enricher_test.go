package enricher

import (
	"net/netip"
	"testing"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

func TestAnnotateClassification(t *testing.T) {
	e := NewEnricher("", "")
	defer e.Close()

	tests := []struct {
		name string
		ip   string
		want string
	}{
		{"ipv4 loopback", "127.0.0.1", "loopback"},
		{"ipv6 loopback", "::1", "loopback"},
		{"rfc1918 10", "10.1.2.3", "internal"},
		{"rfc1918 192.168", "192.168.0.9", "internal"},
		{"link local", "169.254.0.1", "internal"},
		{"public v4", "203.0.113.7", "external"},
		{"public v6", "2001:db8::42", "external"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &accesslog.LogRecord{RemoteIP: netip.MustParseAddr(tt.ip)}
			ann := e.Annotate(rec)
			if ann.Class != tt.want {
				t.Errorf("Annotate(%s).Class = %q, expected %q", tt.ip, ann.Class, tt.want)
			}
		})
	}
}

func TestAnnotateWithoutDatabases(t *testing.T) {
	e := NewEnricher("", "")
	defer e.Close()

	rec := &accesslog.LogRecord{RemoteIP: netip.MustParseAddr("203.0.113.7")}
	ann := e.Annotate(rec)

	if ann.Country != "Unknown" || ann.ASN != "Unknown" {
		t.Errorf("expected Unknown lookups without databases, got %+v", ann)
	}
}

func TestAnnotateInvalidAddress(t *testing.T) {
	e := NewEnricher("", "")
	defer e.Close()

	ann := e.Annotate(&accesslog.LogRecord{})
	if ann.Class != "unknown" {
		t.Errorf("expected unknown class for zero address, got %q", ann.Class)
	}
}

func TestNewEnricherMissingDatabaseFiles(t *testing.T) {
	// Bad paths must degrade, not fail.
	e := NewEnricher("/nonexistent/city.mmdb", "/nonexistent/asn.mmdb")
	defer e.Close()

	rec := &accesslog.LogRecord{RemoteIP: netip.MustParseAddr("203.0.113.7")}
	if ann := e.Annotate(rec); ann.Country != "Unknown" {
		t.Errorf("expected Unknown country, got %q", ann.Country)
	}
}
