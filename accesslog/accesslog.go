// Package accesslog transforms single web-server access-log lines into
// typed records. Only the Apache combined dialect is supported, in two
// flavours: the strict Combined grammar, which splits the request line into
// method, URI and protocol, and the lenient legacy Bogus grammar, which
// keeps the request line opaque for lines that do not decompose cleanly.
//
// The package does no I/O and keeps no per-line state: feeding lines in and
// doing something with the records (or the typed failures) is entirely the
// caller's business.
package accesslog

// Format identifies a supported access-log dialect.
type Format string

const (
	// Combined is the Apache combined format:
	//   %h %l %u %t "%r" %>s %b "%{Referer}i" "%{User-agent}i"
	// with the request line split into method, URI and protocol.
	Combined Format = "combined"

	// Bogus is the lenient legacy variant of Combined. The quoted request
	// line is captured as a single opaque token, for lines whose request
	// section is not a clean method/URI/protocol triple.
	Bogus Format = "bogus"
)

// Parser turns one raw access-log line into a LogRecord.
// Implementations are stateless after construction and safe for concurrent
// use; a parse either completes synchronously or fails synchronously.
type Parser interface {
	Parse(line string) (*LogRecord, error)
}
