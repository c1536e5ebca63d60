package pipeline

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	fitness "github.com/DanilovKZN/Fitness-tracker"
	"github.com/DanilovKZN/Fitness-tracker/fitsource"
)

const packetsJSON = `[
  {"code": "RUN", "data": [15000, 1, 75]},
  {"code": "WLK", "data": [9000, 1, 75, 10]},
  {"code": "SWM", "data": [720, 1, 80, 25, 50]},
  {"code": "RUN", "data": ["fast", 1, 75]},
  {"code": "BIK", "data": [1, 2, 3]}
]`

func writePackets(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packets.json")
	require.NoError(t, os.WriteFile(path, []byte(packetsJSON), 0o644))
	return path
}

func TestRunWritesCSVArtifacts(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	res, err := Run(Options{
		PacketsPath: writePackets(t),
		OutDir:      outDir,
		Format:      "CSV",
		Overwrite:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Accepted)
	assert.Equal(t, 3, res.Rejected)
	require.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[0], "height")

	var reports ReportsFile
	data, err := os.ReadFile(res.ReportsPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports.Reports, 2)
	assert.Equal(t, "Running", reports.Reports[0].TrainingType)
	assert.Equal(t, 0, reports.Reports[0].Index)
	assert.InDelta(t, 699.75, reports.Reports[0].Calories, 1e-9)
	assert.Equal(t, 2, reports.Reports[1].Index)

	require.Len(t, reports.Rejected, 3)
	assert.Equal(t, fitness.KindPhysiological, reports.Rejected[0].Kind)
	assert.Equal(t, fitness.FieldHeight, reports.Rejected[0].Field)
	assert.Equal(t, fitness.KindType, reports.Rejected[1].Kind)
	assert.Equal(t, fitness.KindSchema, reports.Rejected[2].Kind)

	f, err := os.Open(res.TablePath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"SWM", "Swimming", "1.000", "0.994", "1.250", "376.000"}, rows[2][2:])

	summary, err := os.ReadFile(res.SummaryPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Calories burned: 699.750.")
}

func TestRunWritesParquet(t *testing.T) {
	outDir := t.TempDir()
	res, err := Run(Options{Demo: true, OutDir: outDir, Format: FormatParquet, Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "reports.parquet"), res.TablePath)

	fr, err := local.NewLocalFileReader(res.TablePath)
	require.NoError(t, err)
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(reportParquetRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(3), pr.GetNumRows())
	rows := make([]reportParquetRow, pr.GetNumRows())
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, "Swimming", rows[0].TrainingType)
	assert.Equal(t, "demo", rows[1].Source)
	assert.InDelta(t, 157.5, rows[2].CaloriesKcal, 1e-9)
}

func TestRunWithoutOutDirKeepsReportsInMemory(t *testing.T) {
	res, err := Run(Options{Demo: true})
	require.NoError(t, err)
	assert.Empty(t, res.OutputDir)
	assert.Empty(t, res.ReportsPath)
	assert.Equal(t, 3, res.Accepted)
	assert.Len(t, res.Reports.Reports, 3)
}

func TestRunRefusesNonEmptyDirWithoutOverwrite(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "keep.txt"), []byte("x"), 0o644))

	_, err := Run(Options{Demo: true, OutDir: outDir, Overwrite: false})
	assert.ErrorContains(t, err, "not empty")
}

func TestRunErrors(t *testing.T) {
	_, err := Run(Options{})
	assert.ErrorContains(t, err, "no packets")

	_, err = Run(Options{Demo: true, Format: "xml"})
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Run(Options{FitPaths: []string{filepath.Join(t.TempDir(), "missing.fit")}})
	assert.ErrorContains(t, err, "missing.fit")
}

func TestRunFITFilesWithOneBadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "run.fit")
	require.NoError(t, os.WriteFile(good, buildRunFIT(t), 0o644))
	bad := filepath.Join(dir, "bad.fit")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	res, err := Run(Options{
		FitPaths: []string{bad, good},
		Athlete:  fitsource.Athlete{WeightKG: 75},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Accepted)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "bad.fit")
	assert.Equal(t, good, res.Reports.Reports[0].Source)
	assert.InDelta(t, 9.75, res.Reports.Reports[0].Speed, 1e-9)
}

func TestRunBytes(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		SourceName: "upload",
		Packets:    fitness.DemoPackets(),
		FitData:    buildRunFIT(t),
		Athlete:    fitsource.Athlete{WeightKG: 75},
		Format:     FormatParquet,
	})
	require.NoError(t, err)

	for _, name := range []string{"reports.json", "reports.parquet", "training_summary.txt"} {
		assert.NotEmpty(t, res.Files[name], "missing artifact %s", name)
	}
	require.Len(t, res.Reports.Reports, 4)
	assert.Equal(t, "upload", res.Reports.Reports[3].Source)
	assert.Empty(t, res.Warnings)
}

func TestRunBytesRejectedPacketsBecomeWarnings(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		Packets: []fitness.Packet{fitness.NewPacket(fitness.CodeRunning, 15000, 1, 200)},
		Format:  FormatCSV,
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "weight")
	assert.Equal(t, csvHeaderLine(), strings.TrimSpace(string(res.Files["reports.csv"])))
}

func TestDecodePacketsKeepsRawValues(t *testing.T) {
	packets, err := DecodePackets(strings.NewReader(packetsJSON))
	require.NoError(t, err)
	require.Len(t, packets, 5)
	assert.Equal(t, json.Number("15000"), packets[0].Data[0])
	assert.Equal(t, "fast", packets[3].Data[0])

	_, err = DecodePackets(strings.NewReader(`{"code": "RUN"}`))
	assert.Error(t, err)
}

func TestDecodePacketsNormalizesCodes(t *testing.T) {
	packets, err := DecodePackets(strings.NewReader(`[
  {"code": " run", "data": [15000, 1, 75]},
  {"code": "bik", "data": [1, 2, 3]}
]`))
	require.NoError(t, err)
	assert.Equal(t, fitness.CodeRunning, packets[0].Code)
	assert.Equal(t, fitness.Code("bik"), packets[1].Code)

	_, err = fitness.ProcessPacket(packets[0])
	assert.NoError(t, err)
}

func TestRunIndexesPacketsWithinTheirSource(t *testing.T) {
	path := writePackets(t)
	res, err := Run(Options{Demo: true, PacketsPath: path})
	require.NoError(t, err)

	require.Len(t, res.Reports.Reports, 5)
	for i, r := range res.Reports.Reports[:3] {
		assert.Equal(t, "demo", r.Source)
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, path, res.Reports.Reports[3].Source)
	assert.Equal(t, 0, res.Reports.Reports[3].Index)
	assert.Equal(t, 2, res.Reports.Reports[4].Index)

	require.Len(t, res.Reports.Rejected, 3)
	assert.Equal(t, 1, res.Reports.Rejected[0].Index)
	assert.Equal(t, 4, res.Reports.Rejected[2].Index)
	assert.Contains(t, res.Warnings[0], path+" #1:")
}

func csvHeaderLine() string {
	return strings.Join(csvHeader, ",")
}

func buildRunFIT(t *testing.T) []byte {
	t.Helper()

	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	require.NoError(t, err)
	activity, err := file.Activity()
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)
	session := fit.NewSessionMsg()
	session.Timestamp = start.Add(time.Hour)
	session.StartTime = start
	session.Sport = fit.SportRunning
	session.TotalCycles = 7500
	session.TotalTimerTime = uint32(time.Hour / time.Millisecond)
	activity.Sessions = append(activity.Sessions, session)

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	return buf.Bytes()
}
