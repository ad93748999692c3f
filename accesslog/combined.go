package accesslog

import "regexp"

// combinedParser handles the Apache combined format with the request line
// split into method, URI and protocol:
//
//	127.0.0.1 - frank [10/Oct/2023:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326 "-" "Mozilla/5.0"
//
// The method must be uppercase letters, status and size must be digit runs,
// and the user agent may contain embedded spaces.
type combinedParser struct {
	g grammar
}

func newCombinedParser() *combinedParser {
	return &combinedParser{g: grammar{
		format: Combined,
		re:     regexp.MustCompile(`^(\S+) (\S+) (\S+) \[(\S+ \S+)\] "([A-Z]+) (\S+) (\S+)" (\d+) (\d+) "(\S+)" "(.+)"$`),
		fields: []string{
			"remote_ip",
			"remote_logname",
			"remote_user",
			"timestamp",
			"http_method",
			"request_uri",
			"request_protocol",
			"response_status",
			"response_size",
			"referer",
			"user_agent",
		},
	}}
}

// Parse implements Parser.
func (p *combinedParser) Parse(line string) (*LogRecord, error) {
	raw, err := p.g.extract(line)
	if err != nil {
		return nil, err
	}

	rec, err := coerce(raw)
	if err != nil {
		return nil, err
	}
	rec.Method = raw["http_method"]
	rec.RequestURI = raw["request_uri"]
	rec.Protocol = raw["request_protocol"]
	return rec, nil
}
