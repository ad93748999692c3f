package accesslog

import "fmt"

// maxErrLine bounds how much of an offending line an error value may carry.
const maxErrLine = 256

// NoSuchParserError is returned by Registry.Create when the requested
// format has no registered grammar.
type NoSuchParserError struct {
	Format Format
}

func (e *NoSuchParserError) Error() string {
	return fmt.Sprintf("accesslog: no parser available for format %q", string(e.Format))
}

// MalformedLineError reports a line that does not match its dialect's
// grammar: wrong token count, missing quotes or brackets, non-digit status
// or size. Line holds at most maxErrLine bytes of the offending input.
type MalformedLineError struct {
	Format Format
	Line   string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("accesslog: line does not match %s grammar: %q", e.Format, e.Line)
}

func newMalformedLineError(format Format, line string) *MalformedLineError {
	if len(line) > maxErrLine {
		line = line[:maxErrLine] + "..."
	}
	return &MalformedLineError{Format: format, Line: line}
}

// TimestampFormatError reports a timestamp token that does not follow the
// DD/Mon/YYYY:HH:MM:SS ±HHMM shape or denotes an impossible calendar
// instant.
type TimestampFormatError struct {
	Token string
	Err   error
}

func (e *TimestampFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("accesslog: bad timestamp %q: %v", e.Token, e.Err)
	}
	return fmt.Sprintf("accesslog: bad timestamp %q", e.Token)
}

func (e *TimestampFormatError) Unwrap() error { return e.Err }

// InvalidAddressError reports a remote host token that is not an IPv4 or
// IPv6 address literal.
type InvalidAddressError struct {
	Token string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("accesslog: invalid remote address %q", e.Token)
}

// InvalidIntegerError reports a numeric field whose digit token does not
// fit the native integer width. The grammar guarantees the token is all
// digits, so overflow is the only way in here.
type InvalidIntegerError struct {
	Field string
	Token string
	Err   error
}

func (e *InvalidIntegerError) Error() string {
	return fmt.Sprintf("accesslog: %s %q does not fit an integer", e.Field, e.Token)
}

func (e *InvalidIntegerError) Unwrap() error { return e.Err }
