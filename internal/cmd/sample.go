package cmd

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

// sampleCmd generates synthetic traffic for demos and pipeline testing:
//
//	alp sample -n 1000 | alp parse -
//	alp sample --rate 50 --malformed 0.1 >> /var/log/demo/access.log
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Emit synthetic access log lines",
	RunE:  runSample,
}

var (
	sampleCount     int
	sampleRate      int
	sampleFormat    string
	sampleSeed      int64
	sampleMalformed float64
)

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 10, "number of lines to emit (0 = until interrupted)")
	sampleCmd.Flags().IntVar(&sampleRate, "rate", 0, "lines per second (0 = no throttle)")
	sampleCmd.Flags().StringVarP(&sampleFormat, "format", "f", string(accesslog.Combined), "log dialect to emit: combined, bogus")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 = time-based)")
	sampleCmd.Flags().Float64Var(&sampleMalformed, "malformed", 0, "fraction of lines to corrupt, 0..1")
}

var (
	sampleIPs = []string{
		"127.0.0.1", "192.168.1.14", "10.0.3.7", "172.16.9.22",
		"93.184.216.34", "151.101.1.69", "203.0.113.45", "198.51.100.7",
		"2001:db8::42", "66.249.66.1",
	}
	sampleMethods = []string{"GET", "GET", "GET", "GET", "POST", "HEAD", "PUT", "DELETE"}
	samplePaths   = []string{
		"/", "/index.html", "/favicon.ico", "/api/v1/items", "/api/v1/items/42",
		"/static/app.js", "/static/style.css", "/login", "/search?q=logs",
		"/images/banner.png", "/wp-login.php", "/admin",
	}
	sampleReferers = []string{
		"-", "-", "-", "http://www.example.com/start.html",
		"https://search.example.net/?q=apache+logs",
	}
	sampleAgents = []string{
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) Gecko/20100101 Firefox/125.0",
		"curl/8.5.0",
		"Googlebot/2.1 (+http://www.google.com/bot.html)",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) Safari/604.1",
	}
	// Weighted toward success the way real traffic is.
	sampleStatuses = []int{
		200, 200, 200, 200, 200, 200, 200, 200, 200, 200,
		301, 304, 304, 206, 404, 404, 403, 500, 502,
	}
	// Requests a strict parser rejects but the lenient dialect keeps.
	sampleBogusRequests = []string{
		`get /lowercase http/1.0`,
		`\x16\x03\x01\x02\x00\x01\x00\x01\xfc\x03\x03`,
		`GET /no-protocol`,
		`OPTIONS * HTTP/1.0`,
	}
)

func runSample(cmd *cobra.Command, args []string) error {
	format := accesslog.Format(sampleFormat)
	if format != accesslog.Combined && format != accesslog.Bogus {
		return fmt.Errorf("unknown format %q", sampleFormat)
	}
	if sampleMalformed < 0 || sampleMalformed > 1 {
		return fmt.Errorf("malformed fraction %v out of range", sampleMalformed)
	}

	seed := sampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	var throttle <-chan time.Time
	if sampleRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(sampleRate))
		defer ticker.Stop()
		throttle = ticker.C
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for i := 0; sampleCount == 0 || i < sampleCount; i++ {
		if throttle != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-throttle:
			}
		}
		fmt.Fprintln(w, sampleLine(r, format, sampleMalformed))
		// Throttled output should be visible as it happens.
		if sampleRate > 0 {
			w.Flush()
		}
	}
	return nil
}

func sampleLine(r *rand.Rand, format accesslog.Format, malformed float64) string {
	if malformed > 0 && r.Float64() < malformed {
		return corruptLine(r)
	}

	ts := time.Now().Format("02/Jan/2006:15:04:05 -0700")
	status := pick(r, sampleStatuses)

	var request string
	if format == accesslog.Bogus && r.Intn(4) == 0 {
		request = pick(r, sampleBogusRequests)
	} else {
		request = fmt.Sprintf("%s %s HTTP/1.1", pick(r, sampleMethods), pick(r, samplePaths))
	}

	size := 0
	if status != 304 && status != 301 {
		size = 120 + r.Intn(48000)
	}

	return fmt.Sprintf(`%s - %s [%s] "%s" %d %d "%s" "%s"`,
		pick(r, sampleIPs), pickUser(r), ts, request, status, size,
		pick(r, sampleReferers), pick(r, sampleAgents))
}

// corruptLine produces lines the parsers must reject, so the failure path
// (counters, dead letters) gets traffic too.
func corruptLine(r *rand.Rand) string {
	ts := time.Now().Format("02/Jan/2006:15:04:05 -0700")
	switch r.Intn(5) {
	case 0:
		return "this is not an access log line"
	case 1:
		return fmt.Sprintf(`10.0.0.1 - - [%s] "GET / HTTP/1.1" abc 123 "-" "-"`, ts)
	case 2:
		return `10.0.0.1 - - [not a timestamp] "GET / HTTP/1.1" 200 123 "-" "-"`
	case 3:
		// Apache writes "-" for bodyless responses; the grammar wants digits.
		return fmt.Sprintf(`10.0.0.1 - - [%s] "GET / HTTP/1.1" 304 - "-" "-"`, ts)
	default:
		return fmt.Sprintf(`10.0.0.1 - - [%s] "GET / HTTP/1.1" 200 123 "-" "unterminated`, ts)
	}
}

func pick[T any](r *rand.Rand, pool []T) T {
	return pool[r.Intn(len(pool))]
}

func pickUser(r *rand.Rand) string {
	if r.Intn(10) == 0 {
		return "frank"
	}
	return "-"
}
