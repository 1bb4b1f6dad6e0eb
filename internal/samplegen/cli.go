package samplegen

import (
	"fmt"
	"io"
)

// ShowHelp prints usage information for the sample-matches tool.
func ShowHelp(w io.Writer) {
	fmt.Fprintf(w, `RugbyLens Sample Matches
========================

Generates synthetic match event files and optionally uploads them to a
running RugbyLens server as one session.

Usage:
  go run ./cmd/sample-matches [options]

Options:
  -dir string
        Output directory for the CSV files (default "sample-data")
  -matches int
        Number of match files to generate (default %d)
  -events int
        Approximate events per match (default %d)
  -seed uint
        Generator seed; equal seeds give identical files (default 1)
  -url string
        Server base URL; when set the files are uploaded (e.g. http://localhost:9080)
  -timeout duration
        HTTP request timeout (default %s)
  -verbose
        Log every written file
  -help
        Show this help

Examples:
  # Four matches into ./sample-data
  go run ./cmd/sample-matches

  # Eight matches uploaded to a local server
  go run ./cmd/sample-matches -matches 8 -url http://localhost:9080
`, DefaultMatches, DefaultEventsPerMatch, DefaultTimeout)
}
