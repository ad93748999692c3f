package discovery

import (
	"log"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/config"
)

// Target is one concrete file to follow, resolved from a service
// definition.
type Target struct {
	Service string
	Format  accesslog.Format
	Path    string
}

// Expand resolves configured services into follow targets. Glob patterns
// (including **) are expanded against the filesystem; a literal path is
// kept even when the file does not exist yet, since the tailer waits for
// it to appear. Disabled services and unmatched patterns are skipped.
func Expand(services []config.Service) []Target {
	var targets []Target
	for _, svc := range services {
		if svc.Disabled {
			log.Printf("discovery: %s disabled, skipping", svc.Name)
			continue
		}

		format := accesslog.Format(svc.Format)

		if !isPattern(svc.Path) {
			targets = append(targets, Target{Service: svc.Name, Format: format, Path: svc.Path})
			continue
		}

		matches, err := doublestar.FilepathGlob(svc.Path, doublestar.WithFilesOnly())
		if err != nil {
			log.Printf("discovery: %s: bad pattern %q: %v", svc.Name, svc.Path, err)
			continue
		}
		if len(matches) == 0 {
			log.Printf("discovery: %s: pattern %q matched no files", svc.Name, svc.Path)
			continue
		}
		for _, m := range matches {
			targets = append(targets, Target{Service: svc.Name, Format: format, Path: m})
		}
	}
	return targets
}

func isPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
