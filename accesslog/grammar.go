package accesslog

import (
	"net/netip"
	"regexp"
	"strconv"
)

// grammar couples a dialect's compiled line pattern with the ordered field
// names its capture groups produce, one name per group.
type grammar struct {
	format Format
	re     *regexp.Regexp
	fields []string
}

// extract applies the pattern to one line and zips the capture groups with
// their field names. Declaration order lives in g.fields; lookups go
// through the returned map.
func (g *grammar) extract(line string) (map[string]string, error) {
	m := g.re.FindStringSubmatch(line)
	if m == nil {
		return nil, newMalformedLineError(g.format, line)
	}

	raw := make(map[string]string, len(g.fields))
	for i, name := range g.fields {
		raw[name] = m[i+1]
	}
	return raw, nil
}

// coerce types the fields shared by every dialect from the raw token map.
// Coercions are independent of each other; the first failure aborts the
// parse, so no partial record ever escapes.
func coerce(raw map[string]string) (*LogRecord, error) {
	addr, err := parseAddr(raw["remote_ip"])
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(raw["timestamp"])
	if err != nil {
		return nil, err
	}
	status, err := parseCount("response_status", raw["response_status"])
	if err != nil {
		return nil, err
	}
	size, err := parseCount("response_size", raw["response_size"])
	if err != nil {
		return nil, err
	}

	return &LogRecord{
		RemoteIP:      addr,
		RemoteLogname: raw["remote_logname"],
		RemoteUser:    raw["remote_user"],
		Timestamp:     ts,
		Status:        status,
		Size:          size,
		Referer:       raw["referer"],
		UserAgent:     raw["user_agent"],
	}, nil
}

// parseAddr validates the remote host token as an IPv4 or IPv6 literal.
func parseAddr(token string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(token)
	if err != nil {
		return netip.Addr{}, &InvalidAddressError{Token: token}
	}
	return addr, nil
}

// parseCount converts a grammar-validated digit token to an int.
func parseCount(field, token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, &InvalidIntegerError{Field: field, Token: token, Err: err}
	}
	return n, nil
}
