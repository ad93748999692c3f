package cmd

import (
	"math/rand"
	"testing"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

func TestSampleLinesParse(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	registry := accesslog.NewRegistry()

	for _, format := range registry.Formats() {
		p, err := registry.Create(format)
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", format, err)
		}
		for i := 0; i < 200; i++ {
			line := sampleLine(r, format, 0)
			if _, err := p.Parse(line); err != nil {
				t.Fatalf("%s: generated line does not parse: %v\n%s", format, err, line)
			}
		}
	}
}

func TestCorruptLinesRejected(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	registry := accesslog.NewRegistry()

	for _, format := range registry.Formats() {
		p, err := registry.Create(format)
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", format, err)
		}
		for i := 0; i < 50; i++ {
			line := corruptLine(r)
			if _, err := p.Parse(line); err == nil {
				t.Fatalf("%s: corrupt line unexpectedly parsed:\n%s", format, line)
			}
		}
	}
}
