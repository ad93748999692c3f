package accesslog

import "regexp"

// bogusParser is the lenient legacy grammar. The quoted request line stays
// a single opaque token, which tolerates requests that are not a clean
// method/URI/protocol triple (scanner noise, malformed clients, embedded
// spaces in the target). Everything after the match is coerced exactly like
// the combined dialect.
type bogusParser struct {
	g grammar
}

func newBogusParser() *bogusParser {
	return &bogusParser{g: grammar{
		format: Bogus,
		re:     regexp.MustCompile(`^(\S+) (\S+) (\S+) \[(\S+ \S+)\] "(.+)" (\d+) (\d+) "(\S+)" "(.+)"$`),
		fields: []string{
			"remote_ip",
			"remote_logname",
			"remote_user",
			"timestamp",
			"http_request",
			"response_status",
			"response_size",
			"referer",
			"user_agent",
		},
	}}
}

// Parse implements Parser.
func (p *bogusParser) Parse(line string) (*LogRecord, error) {
	raw, err := p.g.extract(line)
	if err != nil {
		return nil, err
	}

	rec, err := coerce(raw)
	if err != nil {
		return nil, err
	}
	rec.Request = raw["http_request"]
	return rec, nil
}
