package accesslog

import (
	"errors"
	"net/netip"
	"strings"
	"testing"
	"time"
)

const referenceLine = `127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326 "-" "Mozilla/5.0"`

func mustCombined(t *testing.T) Parser {
	t.Helper()
	p, err := NewRegistry().Create(Combined)
	if err != nil {
		t.Fatalf("Create(Combined) failed: %v", err)
	}
	return p
}

func TestCombinedParseReferenceLine(t *testing.T) {
	rec, err := mustCombined(t).Parse(referenceLine)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if want := netip.MustParseAddr("127.0.0.1"); rec.RemoteIP != want {
		t.Errorf("expected remote IP %s, got %s", want, rec.RemoteIP)
	}
	if rec.RemoteLogname != "-" {
		t.Errorf("expected logname \"-\", got %q", rec.RemoteLogname)
	}
	if rec.RemoteUser != "frank" {
		t.Errorf("expected user frank, got %q", rec.RemoteUser)
	}
	if rec.Method != "GET" {
		t.Errorf("expected method GET, got %q", rec.Method)
	}
	if rec.RequestURI != "/apache_pb.gif" {
		t.Errorf("expected URI /apache_pb.gif, got %q", rec.RequestURI)
	}
	if rec.Protocol != "HTTP/1.0" {
		t.Errorf("expected protocol HTTP/1.0, got %q", rec.Protocol)
	}
	if rec.Request != "" {
		t.Errorf("combined dialect should not set the opaque request, got %q", rec.Request)
	}
	if rec.Status != 200 {
		t.Errorf("expected status 200, got %d", rec.Status)
	}
	if rec.Size != 2326 {
		t.Errorf("expected size 2326, got %d", rec.Size)
	}
	if rec.Referer != "-" {
		t.Errorf("expected referer \"-\", got %q", rec.Referer)
	}
	if rec.UserAgent != "Mozilla/5.0" {
		t.Errorf("expected user agent Mozilla/5.0, got %q", rec.UserAgent)
	}

	ts := rec.Timestamp
	if ts.Year() != 2023 || ts.Month() != time.October || ts.Day() != 10 {
		t.Errorf("expected wall date 2023-10-10, got %v", ts)
	}
	if ts.Hour() != 13 || ts.Minute() != 55 || ts.Second() != 36 {
		t.Errorf("expected wall time 13:55:36, got %v", ts)
	}
	if _, off := ts.Zone(); off != -420*60 {
		t.Errorf("expected offset -420 minutes, got %d seconds", off)
	}
}

func TestCombinedStringRoundTrip(t *testing.T) {
	rec, err := mustCombined(t).Parse(referenceLine)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := rec.String(); got != referenceLine {
		t.Errorf("String() did not round-trip:\n in: %s\nout: %s", referenceLine, got)
	}
}

func TestCombinedUserAgentWithSpaces(t *testing.T) {
	line := `10.1.2.3 - - [01/Jan/2024:00:00:01 +0100] "POST /submit HTTP/1.1" 201 0 "https://example.org/form" "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"`
	rec, err := mustCombined(t).Parse(line)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if rec.UserAgent != "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36" {
		t.Errorf("unexpected user agent %q", rec.UserAgent)
	}
	if rec.Referer != "https://example.org/form" {
		t.Errorf("unexpected referer %q", rec.Referer)
	}
	if rec.Size != 0 {
		t.Errorf("expected size 0, got %d", rec.Size)
	}
}

func TestCombinedIPv6Host(t *testing.T) {
	line := `2001:db8::42 - - [10/Oct/2023:13:55:36 +0000] "GET / HTTP/1.1" 304 0 "-" "curl/8.0"`
	rec, err := mustCombined(t).Parse(line)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if want := netip.MustParseAddr("2001:db8::42"); rec.RemoteIP != want {
		t.Errorf("expected remote IP %s, got %s", want, rec.RemoteIP)
	}
	if !rec.RemoteIP.Is6() {
		t.Error("expected an IPv6 address")
	}
}

func TestCombinedMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"unquoted garbage", "not an access log line at all"},
		{"missing timestamp bracket", `127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700 "GET / HTTP/1.0" 200 2326 "-" "UA"`},
		{"missing user token", `127.0.0.1 - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.0" 200 2326 "-" "UA"`},
		{"non-numeric status", `127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.0" 20x 2326 "-" "UA"`},
		{"lowercase method", `127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700] "get / HTTP/1.0" 200 2326 "-" "UA"`},
		{"two-token request", `127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700] "GET /" 200 2326 "-" "UA"`},
		{"unterminated user agent", `127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.0" 200 2326 "-" "UA`},
		{"referer with spaces", `127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.0" 200 2326 "a b" "UA"`},
		{"trailing content", referenceLine + " extra"},
	}

	p := mustCombined(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(tt.line)
			if rec != nil {
				t.Fatalf("expected no record, got %+v", rec)
			}
			var malformed *MalformedLineError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedLineError, got %v", err)
			}
			if malformed.Format != Combined {
				t.Errorf("expected format %q in error, got %q", Combined, malformed.Format)
			}
		})
	}
}

func TestCombinedMalformedErrorLineBounded(t *testing.T) {
	line := strings.Repeat("x", 4096)
	_, err := mustCombined(t).Parse(line)

	var malformed *MalformedLineError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedLineError, got %v", err)
	}
	if len(malformed.Line) > maxErrLine+len("...") {
		t.Errorf("error payload not bounded: carries %d bytes", len(malformed.Line))
	}
	if !strings.HasSuffix(malformed.Line, "...") {
		t.Errorf("expected truncation marker, got %q", malformed.Line[len(malformed.Line)-8:])
	}
}

func TestCombinedInvalidAddress(t *testing.T) {
	line := `front-proxy.local - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.0" 200 2326 "-" "UA"`
	rec, err := mustCombined(t).Parse(line)
	if rec != nil {
		t.Fatalf("expected no record, got %+v", rec)
	}

	var invalid *InvalidAddressError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAddressError, got %v", err)
	}
	if invalid.Token != "front-proxy.local" {
		t.Errorf("expected failing token in error, got %q", invalid.Token)
	}
}

func TestCombinedIntegerOverflow(t *testing.T) {
	line := `127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET / HTTP/1.0" 200 99999999999999999999 "-" "UA"`
	rec, err := mustCombined(t).Parse(line)
	if rec != nil {
		t.Fatalf("expected no record, got %+v", rec)
	}

	var invalid *InvalidIntegerError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidIntegerError, got %v", err)
	}
	if invalid.Field != "response_size" {
		t.Errorf("expected response_size field in error, got %q", invalid.Field)
	}
}

func TestCombinedBadTimestampToken(t *testing.T) {
	line := `127.0.0.1 - - [30/Feb/2023:13:55:36 -0700] "GET / HTTP/1.0" 200 2326 "-" "UA"`
	_, err := mustCombined(t).Parse(line)

	var tserr *TimestampFormatError
	if !errors.As(err, &tserr) {
		t.Fatalf("expected TimestampFormatError, got %v", err)
	}
	if tserr.Token != "30/Feb/2023:13:55:36 -0700" {
		t.Errorf("expected failing token in error, got %q", tserr.Token)
	}
}

func TestCombinedStatusAndSizeLiterals(t *testing.T) {
	line := `192.168.0.9 - - [10/Oct/2023:13:55:36 +0000] "HEAD /健康 HTTP/2.0" 404 0 "-" "probe"`
	rec, err := mustCombined(t).Parse(line)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if rec.Status != 404 {
		t.Errorf("expected status 404, got %d", rec.Status)
	}
	if rec.Size != 0 {
		t.Errorf("expected size 0, got %d", rec.Size)
	}
	if rec.RequestURI != "/健康" {
		t.Errorf("expected non-ASCII URI to pass through, got %q", rec.RequestURI)
	}
}
