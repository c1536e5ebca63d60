//go:build js && wasm

package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"
	"syscall/js"
	"time"

	"github.com/DanilovKZN/Fitness-tracker/fitsource"
	"github.com/DanilovKZN/Fitness-tracker/pipeline"
)

func main() {
	js.Global().Set("trainingReport", js.FuncOf(trainingReport))
	select {}
}

// trainingReport accepts either a JSON packets string or FIT file bytes.
func trainingReport(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return map[string]any{
			"ok":    false,
			"error": "expected arguments: input(string JSON packets | Uint8Array FIT bytes), options(object)",
		}
	}
	input := args[0]
	optsArg := args[1]
	if input.IsUndefined() || input.IsNull() {
		return map[string]any{
			"ok":    false,
			"error": "input is required",
		}
	}

	opts := pipeline.BytesOptions{
		SourceName: getString(optsArg, "source_file_name", "input"),
		Athlete: fitsource.Athlete{
			WeightKG: getFloat(optsArg, "weight_kg"),
			HeightCM: getFloat(optsArg, "height_cm"),
		},
		Format: getString(optsArg, "format", "csv"),
	}

	if input.Type() == js.TypeString {
		packets, err := pipeline.DecodePackets(strings.NewReader(input.String()))
		if err != nil {
			return map[string]any{
				"ok":    false,
				"error": err.Error(),
			}
		}
		opts.Packets = packets
	} else {
		if input.Get("length").Int() == 0 {
			return map[string]any{
				"ok":    false,
				"error": "fit file bytes are required",
			}
		}
		fileBytes := make([]byte, input.Get("length").Int())
		if n := js.CopyBytesToGo(fileBytes, input); n == 0 {
			return map[string]any{
				"ok":    false,
				"error": "failed to read FIT bytes from JS input",
			}
		}
		opts.FitData = fileBytes
	}

	result, err := pipeline.RunBytes(opts)
	if err != nil {
		return map[string]any{
			"ok":    false,
			"error": err.Error(),
		}
	}

	zipBytes, err := zipArtifacts(result.Files)
	if err != nil {
		return map[string]any{
			"ok":    false,
			"error": fmt.Sprintf("create zip: %v", err),
		}
	}
	payload := js.Global().Get("Uint8Array").New(len(zipBytes))
	js.CopyBytesToJS(payload, zipBytes)

	messages := make([]string, 0, len(result.Reports.Reports))
	for _, r := range result.Reports.Reports {
		messages = append(messages, r.Message())
	}

	return map[string]any{
		"ok":       true,
		"zip":      payload,
		"messages": stringsToAny(messages),
		"warnings": stringsToAny(result.Warnings),
	}
}

func zipArtifacts(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fixedTime := time.Unix(0, 0).UTC()

	for _, name := range names {
		h := &zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		}
		h.SetModTime(fixedTime)
		w, err := zw.CreateHeader(h)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func getString(v js.Value, key, fallback string) string {
	if v.IsUndefined() || v.IsNull() {
		return fallback
	}
	out := v.Get(key)
	if out.Type() != js.TypeString || out.String() == "" {
		return fallback
	}
	return out.String()
}

func getFloat(v js.Value, key string) float64 {
	if v.IsUndefined() || v.IsNull() {
		return 0
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() || out.Type() != js.TypeNumber {
		return 0
	}
	return out.Float()
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
