package fitness

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Code identifies the activity a packet was recorded for.
type Code string

const (
	CodeSwimming Code = "SWM"
	CodeRunning  Code = "RUN"
	CodeWalking  Code = "WLK"
)

// Field names used in schemas and diagnostics.
const (
	FieldAction     = "action"
	FieldDuration   = "duration_h"
	FieldWeight     = "weight_kg"
	FieldHeight     = "height_cm"
	FieldPoolLength = "pool_length_m"
	FieldPoolCount  = "pool_count"
)

// Plausible human ranges, inclusive.
const (
	MinWeightKG = 14.0
	MaxWeightKG = 160.0
	MinHeightCM = 50.0
	MaxHeightCM = 250.0

	// MaxCount bounds step, stroke and pool counts.
	MaxCount = 1e7
)

var schemas = map[Code][]string{
	CodeSwimming: {FieldAction, FieldDuration, FieldWeight, FieldPoolLength, FieldPoolCount},
	CodeRunning:  {FieldAction, FieldDuration, FieldWeight},
	CodeWalking:  {FieldAction, FieldDuration, FieldWeight, FieldHeight},
}

var wholeFields = map[string]bool{
	FieldAction:    true,
	FieldPoolCount: true,
}

// Codes lists the known activity codes in a stable order.
func Codes() []Code {
	return []Code{CodeSwimming, CodeRunning, CodeWalking}
}

// Schema returns the positional field names expected for code.
func Schema(code Code) ([]string, bool) {
	fields, ok := schemas[code]
	if !ok {
		return nil, false
	}
	return append([]string(nil), fields...), true
}

// ParseCode normalizes a textual activity code.
func ParseCode(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := schemas[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownActivity, s)
	}
	return code, nil
}

// Packet is one raw sensor reading: an activity code and its positional fields.
type Packet struct {
	Code Code  `json:"code"`
	Data []any `json:"data"`
}

// NewPacket builds a packet from plain numbers.
func NewPacket(code Code, values ...float64) Packet {
	data := make([]any, len(values))
	for i, v := range values {
		data[i] = v
	}
	return Packet{Code: code, Data: data}
}

// Validate checks that data is a structurally and physiologically plausible
// packet for code. It returns nil when the packet may be constructed and a
// *ValidationError describing the first failed rule otherwise.
func Validate(code Code, data []any) error {
	fields, ok := schemas[code]
	if !ok {
		return &ValidationError{Code: code, Kind: KindSchema, Err: ErrUnknownActivity,
			Reason: fmt.Sprintf("unknown activity code %q", string(code))}
	}
	if len(data) != len(fields) {
		return &ValidationError{Code: code, Kind: KindSchema, Err: ErrFieldCount,
			Reason: fmt.Sprintf("expected %d fields (%s), got %d", len(fields), strings.Join(fields, ", "), len(data))}
	}

	values := make(map[string]float64, len(fields))
	for i, name := range fields {
		v, ok := toFloat(data[i])
		if !ok {
			return &ValidationError{Code: code, Field: name, Kind: KindType, Err: ErrNotNumeric,
				Reason: fmt.Sprintf("%s must be a number, got %v (%T)", name, data[i], data[i])}
		}
		if v <= 0 {
			return &ValidationError{Code: code, Field: name, Kind: KindType, Err: ErrNotPositive,
				Reason: fmt.Sprintf("%s must be greater than zero, got %v", name, v)}
		}
		if wholeFields[name] && v != math.Trunc(v) {
			return &ValidationError{Code: code, Field: name, Kind: KindType, Err: ErrNotWhole,
				Reason: fmt.Sprintf("%s must be a whole number, got %v", name, v)}
		}
		if wholeFields[name] && v > MaxCount {
			return &ValidationError{Code: code, Field: name, Kind: KindType, Err: ErrCountRange,
				Reason: fmt.Sprintf("%s must not exceed %v, got %v", name, MaxCount, v)}
		}
		values[name] = v
	}

	if w := values[FieldWeight]; w < MinWeightKG || w > MaxWeightKG {
		return &ValidationError{Code: code, Field: FieldWeight, Kind: KindPhysiological, Err: ErrWeightRange,
			Reason: fmt.Sprintf("weight %v kg is outside %v-%v kg", w, MinWeightKG, MaxWeightKG)}
	}
	if code == CodeWalking {
		if h := values[FieldHeight]; h < MinHeightCM || h > MaxHeightCM {
			return &ValidationError{Code: code, Field: FieldHeight, Kind: KindPhysiological, Err: ErrHeightRange,
				Reason: fmt.Sprintf("height %v cm is outside %v-%v cm", h, MinHeightCM, MaxHeightCM)}
		}
	}
	return nil
}

// Floats converts validated packet data to plain numbers. It must only be
// called after Validate accepted the packet.
func (p Packet) Floats() []float64 {
	out := make([]float64, len(p.Data))
	for i, v := range p.Data {
		f, ok := toFloat(v)
		if !ok {
			panic(fmt.Sprintf("fitness: field %d of %s packet is not numeric: %v", i, p.Code, v))
		}
		out[i] = f
	}
	return out
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
