package accesslog

import "sync"

// Registry hands out shared parser instances by format. Parsers are
// stateless once built, so a single instance per format is cached and
// reused; the grammar is compiled lazily on the first Create for that
// format.
//
// A Registry is safe for concurrent use. Callers construct one with
// NewRegistry and pass it to whatever needs parsers; there is no package
// global.
type Registry struct {
	mu      sync.Mutex
	parsers map[Format]Parser
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[Format]Parser)}
}

// Create returns the shared parser for the requested format, building and
// caching it on first use. Unknown formats fail with *NoSuchParserError
// naming the identifier.
func (r *Registry) Create(format Format) (Parser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.parsers[format]; ok {
		return p, nil
	}

	var p Parser
	switch format {
	case Combined:
		p = newCombinedParser()
	case Bogus:
		p = newBogusParser()
	default:
		return nil, &NoSuchParserError{Format: format}
	}
	r.parsers[format] = p
	return p, nil
}

// Formats returns the closed set of supported format identifiers.
func (r *Registry) Formats() []Format {
	return []Format{Combined, Bogus}
}
