package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/output"
)

var parseCmd = &cobra.Command{
	Use:   "parse [files|globs|-]",
	Short: "Parse access log files and print typed records",
	Long: `Parse one or more access log files (or glob patterns) and print each
record. Reads stdin when no arguments are given or the argument is "-".
Lines that fail to parse are reported on stderr and skipped.

Examples:
  alp parse /var/log/apache2/access.log
  alp parse "/var/log/**/access.log" --output json
  zcat access.log.gz | alp parse - --format bogus`,
	RunE: runParse,
}

var (
	parseFormat string
	strict      bool
)

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", string(accesslog.Combined), "log dialect: combined, bogus")
	parseCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero if any line failed to parse")
}

func runParse(cmd *cobra.Command, args []string) error {
	parser, err := accesslog.NewRegistry().Create(accesslog.Format(parseFormat))
	if err != nil {
		return err
	}

	renderer := newRenderer(outputFmt)

	var total, failed int
	scan := func(r io.Reader, name string) error {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			if line == "" {
				continue
			}
			total++
			rec, err := parser.Parse(line)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
				continue
			}
			if err := renderer.Render(rec); err != nil {
				return err
			}
		}
		return sc.Err()
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		if err := scan(os.Stdin, "stdin"); err != nil {
			return err
		}
	} else {
		paths, err := expandArgs(args)
		if err != nil {
			return err
		}
		for _, path := range paths {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			scanErr := scan(f, path)
			f.Close()
			if scanErr != nil {
				return scanErr
			}
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d lines failed to parse\n", failed, total)
		if strict {
			return fmt.Errorf("%d malformed lines", failed)
		}
	}
	return nil
}

// expandArgs resolves file arguments, expanding glob patterns (including
// **) against the filesystem.
func expandArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func newRenderer(format string) output.Renderer {
	switch strings.ToLower(format) {
	case "json":
		return output.NewJSONRenderer(os.Stdout)
	default:
		return output.NewTextRenderer(os.Stdout)
	}
}
