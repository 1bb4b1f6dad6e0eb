package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rugbylens/internal/samplegen"
	"github.com/okian/rugbylens/pkg/logger"
)

const defaultRunTimeout = 5 * time.Minute

func main() {
	var (
		dir     = flag.String("dir", "sample-data", "Output directory for the CSV files")
		matches = flag.Int("matches", samplegen.DefaultMatches, "Number of match files to generate")
		events  = flag.Int("events", samplegen.DefaultEventsPerMatch, "Approximate events per match")
		seed    = flag.Uint64("seed", 1, "Generator seed")
		baseURL = flag.String("url", "", "Server base URL; when set the files are uploaded")
		timeout = flag.Duration("timeout", samplegen.DefaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every written file")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		samplegen.ShowHelp(os.Stdout)
		return
	}

	if err := logger.InitWith(logger.Options{Writer: os.Stderr}); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &samplegen.Config{
		Dir:            *dir,
		Matches:        *matches,
		EventsPerMatch: *events,
		Seed:           *seed,
		BaseURL:        *baseURL,
		Timeout:        *timeout,
		Verbose:        *verbose,
	}
	if err := samplegen.Run(ctx, cfg, os.Stdout); err != nil {
		logger.Get().Error(ctx, "sample run failed", logger.Error(err))
		os.Exit(1)
	}
}
