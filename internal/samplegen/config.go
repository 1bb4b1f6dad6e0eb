package samplegen

import "time"

// Config holds configuration for a sample-data run.
type Config struct {
	Dir            string        // Output directory for the CSV files
	Matches        int           // Number of match files to generate
	EventsPerMatch int           // Approximate rows per match
	Seed           uint64        // Generator seed; equal seeds give equal files
	BaseURL        string        // Server to upload to; empty skips the upload
	Timeout        time.Duration // HTTP request timeout
	Verbose        bool          // Log every written file
}

// Match is one generated match file.
type Match struct {
	Name string     // File base name, e.g. "R01_Harlequins_v_Saracens.csv"
	Home string     // Home team
	Away string     // Away team
	Rows [][]string // Data rows in Header column order
}

// Written describes a match file on disk.
type Written struct {
	Path string
	Rows int
	Size int64
}

// Summary is what the server reported for an upload.
type Summary struct {
	SessionID string
	Files     []string
	Rows      int64
	Teams     []string
	Actions   []string
}

// Stats holds run statistics.
type Stats struct {
	FilesWritten int
	RowsWritten  int
	BytesWritten int64
	StartTime    time.Time
	Duration     time.Duration
}
