// Command roadview-feed replays recorded telemetry into a running roadviewd
// over its HTTP ingest endpoint. Input is JSON lines, one message per line:
//
//	{"topic": "carState", "data": {"speed_mps": 12.5}}
//
// Lines are posted in order, optionally paced to a fixed interval to mimic
// the live message cadence.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/banshee-data/roadview/internal/httputil"
	"github.com/banshee-data/roadview/internal/monitoring"
	"github.com/banshee-data/roadview/internal/timeutil"
	"github.com/banshee-data/roadview/internal/version"
)

func main() {
	var (
		server      = flag.String("server", "http://127.0.0.1:8080", "base URL of the roadviewd API")
		input       = flag.String("input", "", "JSON-lines telemetry file (default stdin)")
		interval    = flag.Duration("interval", 0, "pause between messages (0 posts as fast as possible)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("roadview-feed %s (%s)\n", version.Version, version.GitSHA)
		return
	}

	in := os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			monitoring.Logf("feed: open input: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	feeder := NewFeeder(httputil.NewStandardClient(nil), *server, *interval, timeutil.RealClock{})
	stats, err := feeder.Run(in)
	if err != nil {
		monitoring.Logf("feed: %v", err)
		os.Exit(1)
	}
	monitoring.Logf("feed: posted %d messages, %d rejected, took %v",
		stats.Posted, stats.Rejected, stats.Elapsed.Round(time.Millisecond))
	if stats.Rejected > 0 {
		os.Exit(1)
	}
}
