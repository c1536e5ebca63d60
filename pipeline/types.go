package pipeline

import (
	fitness "github.com/DanilovKZN/Fitness-tracker"
	"github.com/DanilovKZN/Fitness-tracker/fitsource"
)

// Output formats for the tabular reports artifact.
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Options configures a batch run.
type Options struct {
	PacketsPath string   // JSON array of {"code": ..., "data": [...]}
	FitPaths    []string // FIT activity files
	Demo        bool     // include the built-in sample packets
	Athlete     fitsource.Athlete
	OutDir      string // empty: nothing is written to disk
	Format      string // json|csv|parquet
	Overwrite   bool
}

// BytesOptions configures an in-memory run.
type BytesOptions struct {
	SourceName string
	Packets    []fitness.Packet
	FitData    []byte
	Athlete    fitsource.Athlete
	Format     string
}

// Result returns the generated reports and output paths.
type Result struct {
	OutputDir   string   `json:"output_dir,omitempty"`
	ReportsPath string   `json:"reports_path,omitempty"`
	TablePath   string   `json:"table_path,omitempty"`
	SummaryPath string   `json:"summary_path,omitempty"`
	Accepted    int      `json:"accepted"`
	Rejected    int      `json:"rejected"`
	Warnings    []string `json:"warnings,omitempty"`

	Reports ReportsFile `json:"-"`
}

// BytesResult holds rendered artifacts keyed by file name.
type BytesResult struct {
	Files    map[string][]byte
	Reports  ReportsFile
	Warnings []string
}

// ReportsFile is the content of reports.json.
type ReportsFile struct {
	Reports  []ReportEntry    `json:"reports"`
	Rejected []RejectedPacket `json:"rejected,omitempty"`
}

// ReportEntry is one accepted packet and its training report.
type ReportEntry struct {
	Source string       `json:"source"`
	Index  int          `json:"index"`
	Code   fitness.Code `json:"code"`
	fitness.InfoMessage
}

// RejectedPacket records why a packet was skipped.
type RejectedPacket struct {
	Source string       `json:"source"`
	Index  int          `json:"index"`
	Code   fitness.Code `json:"code"`
	Kind   fitness.Kind `json:"kind,omitempty"`
	Field  string       `json:"field,omitempty"`
	Reason string       `json:"reason"`
}

// sourcedPacket remembers where a packet came from; index is its position
// within source.
type sourcedPacket struct {
	source string
	index  int
	packet fitness.Packet
}
