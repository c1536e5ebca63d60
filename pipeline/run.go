package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	fitness "github.com/DanilovKZN/Fitness-tracker"
	"github.com/DanilovKZN/Fitness-tracker/fitsource"
)

const (
	reportsFileName = "reports.json"
	summaryFileName = "training_summary.txt"
)

// Run loads packets from every configured source, processes them and, when
// an output directory is set, writes the report artifacts.
func Run(opts Options) (*Result, error) {
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	packets, loadErr := collectPackets(opts)
	warnings := errorStrings(loadErr)
	if len(packets) == 0 {
		if loadErr != nil {
			return nil, fmt.Errorf("no packets loaded: %w", loadErr)
		}
		return nil, fmt.Errorf("no packets to process (set a packets file, FIT files or demo)")
	}

	reports := buildReports(packets)
	for _, r := range reports.Rejected {
		warnings = append(warnings, fmt.Sprintf("%s #%d: %s", r.Source, r.Index, r.Reason))
	}

	result := &Result{
		Accepted: len(reports.Reports),
		Rejected: len(reports.Rejected),
		Warnings: warnings,
		Reports:  reports,
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return result, nil
	}

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}
	result.OutputDir = opts.OutDir

	result.ReportsPath = filepath.Join(opts.OutDir, reportsFileName)
	if err := writeJSON(result.ReportsPath, reports); err != nil {
		return nil, fmt.Errorf("write %s: %w", reportsFileName, err)
	}

	switch format {
	case FormatCSV:
		result.TablePath = filepath.Join(opts.OutDir, "reports.csv")
		if err := writeReportsCSVFile(result.TablePath, reports.Reports); err != nil {
			return nil, fmt.Errorf("write reports csv: %w", err)
		}
	case FormatParquet:
		result.TablePath = filepath.Join(opts.OutDir, "reports.parquet")
		if err := writeReportsParquet(result.TablePath, reports.Reports); err != nil {
			return nil, fmt.Errorf("write reports parquet: %w", err)
		}
	}

	result.SummaryPath = filepath.Join(opts.OutDir, summaryFileName)
	if err := os.WriteFile(result.SummaryPath, []byte(buildSummary(reports)), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", summaryFileName, err)
	}

	log.WithFields(log.Fields{
		"out_dir":  opts.OutDir,
		"accepted": result.Accepted,
		"rejected": result.Rejected,
	}).Info("reports written")
	return result, nil
}

// RunBytes processes packets held in memory and renders artifacts as bytes.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	source := opts.SourceName
	if source == "" {
		source = "input"
	}
	packets := make([]sourcedPacket, 0, len(opts.Packets))
	for i, p := range opts.Packets {
		packets = append(packets, sourcedPacket{source: source, index: i, packet: p})
	}
	if len(opts.FitData) > 0 {
		fitPackets, err := fitsource.FromBytes(opts.FitData, opts.Athlete)
		if err != nil {
			return nil, err
		}
		for i, p := range fitPackets {
			packets = append(packets, sourcedPacket{source: source, index: len(opts.Packets) + i, packet: p})
		}
	}
	if len(packets) == 0 {
		return nil, fmt.Errorf("no packets to process")
	}

	reports := buildReports(packets)
	files := make(map[string][]byte, 3)

	data, err := marshalJSON(reports)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", reportsFileName, err)
	}
	files[reportsFileName] = data

	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		if err := writeReportsCSV(&buf, reports.Reports); err != nil {
			return nil, fmt.Errorf("render reports csv: %w", err)
		}
		files["reports.csv"] = buf.Bytes()
	case FormatParquet:
		data, err := marshalReportsParquet(reports.Reports)
		if err != nil {
			return nil, fmt.Errorf("render reports parquet: %w", err)
		}
		files["reports.parquet"] = data
	}
	files[summaryFileName] = []byte(buildSummary(reports))

	warnings := make([]string, 0, len(reports.Rejected))
	for _, r := range reports.Rejected {
		warnings = append(warnings, fmt.Sprintf("%s #%d: %s", r.Source, r.Index, r.Reason))
	}
	return &BytesResult{Files: files, Reports: reports, Warnings: warnings}, nil
}

// LoadPackets reads a JSON array of packets. Numbers are kept as json.Number
// so that non-numeric fields reach validation unchanged.
func LoadPackets(path string) ([]fitness.Packet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePackets(f)
}

// DecodePackets decodes a JSON array of packets from r. Known codes are
// normalized ("run" becomes RUN); unknown ones are kept for validation to reject.
func DecodePackets(r io.Reader) ([]fitness.Packet, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var packets []fitness.Packet
	if err := dec.Decode(&packets); err != nil {
		return nil, fmt.Errorf("decode packets: %w", err)
	}
	for i := range packets {
		if code, err := fitness.ParseCode(string(packets[i].Code)); err == nil {
			packets[i].Code = code
		}
	}
	return packets, nil
}

func collectPackets(opts Options) ([]sourcedPacket, error) {
	var (
		out  []sourcedPacket
		errs error
	)
	if opts.Demo {
		for i, p := range fitness.DemoPackets() {
			out = append(out, sourcedPacket{source: "demo", index: i, packet: p})
		}
	}
	if strings.TrimSpace(opts.PacketsPath) != "" {
		packets, err := LoadPackets(opts.PacketsPath)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("load packets %s: %w", opts.PacketsPath, err))
		}
		for i, p := range packets {
			out = append(out, sourcedPacket{source: opts.PacketsPath, index: i, packet: p})
		}
	}
	for _, path := range opts.FitPaths {
		packets, err := fitsource.FromFile(path, opts.Athlete)
		if err != nil {
			log.WithField("file", path).WithError(err).Warn("skipping FIT file")
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		for i, p := range packets {
			out = append(out, sourcedPacket{source: path, index: i, packet: p})
		}
	}
	return out, errs
}

func buildReports(packets []sourcedPacket) ReportsFile {
	raw := make([]fitness.Packet, len(packets))
	for i, sp := range packets {
		raw[i] = sp.packet
	}

	file := ReportsFile{Reports: make([]ReportEntry, 0, len(packets))}
	for _, o := range fitness.Process(raw) {
		source, index := packets[o.Index].source, packets[o.Index].index
		if o.Err != nil {
			rejected := RejectedPacket{
				Source: source,
				Index:  index,
				Code:   o.Packet.Code,
				Reason: o.Err.Error(),
			}
			var verr *fitness.ValidationError
			if errors.As(o.Err, &verr) {
				rejected.Kind = verr.Kind
				rejected.Field = verr.Field
			}
			log.WithFields(log.Fields{
				"source": source,
				"index":  index,
				"code":   o.Packet.Code,
				"kind":   rejected.Kind,
			}).Warn(o.Err.Error())
			file.Rejected = append(file.Rejected, rejected)
			continue
		}
		log.WithFields(log.Fields{
			"source": source,
			"index":  index,
			"code":   o.Packet.Code,
		}).Debug("packet accepted")
		file.Reports = append(file.Reports, ReportEntry{
			Source:      source,
			Index:       index,
			Code:        o.Packet.Code,
			InfoMessage: *o.Report,
		})
	}
	return file
}

func buildSummary(reports ReportsFile) string {
	messages := make([]fitness.InfoMessage, len(reports.Reports))
	for i, r := range reports.Reports {
		messages[i] = r.InfoMessage
	}
	return fitness.BuildSummary(messages)
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return FormatJSON, nil
	}
	switch format {
	case FormatJSON, FormatCSV, FormatParquet:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json|csv|parquet)", format)
	}
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var csvHeader = []string{
	"source", "index", "code", "training_type", "duration_h", "distance_km", "mean_speed_kmh", "calories_kcal",
}

func writeReportsCSVFile(path string, reports []ReportEntry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return writeReportsCSV(f, reports)
}

func writeReportsCSV(out io.Writer, reports []ReportEntry) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reports {
		row := []string{
			r.Source,
			strconv.Itoa(r.Index),
			string(r.Code),
			r.TrainingType,
			formatFloat(r.Duration),
			formatFloat(r.Distance),
			formatFloat(r.Speed),
			formatFloat(r.Calories),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func errorStrings(err error) []string {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
