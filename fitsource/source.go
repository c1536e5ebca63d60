// Package fitsource builds raw workout packets from FIT activity files.
package fitsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/tormoder/fit"

	fitness "github.com/DanilovKZN/Fitness-tracker"
)

const (
	secondsPerHour = 3600.0
	// FIT counts running and walking cycles as strides, one per two steps.
	stepsPerStride = 2.0
)

// ErrUnsupportedSport is returned for sessions that have no packet schema.
var ErrUnsupportedSport = errors.New("unsupported sport")

// Athlete carries the body measurements FIT sessions do not record.
type Athlete struct {
	WeightKG float64
	HeightCM float64
}

// FromFile decodes a FIT activity file and returns one packet per session.
func FromFile(path string, athlete Athlete) ([]fitness.Packet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	return FromReader(f, athlete)
}

// FromBytes decodes raw FIT bytes.
func FromBytes(data []byte, athlete Athlete) ([]fitness.Packet, error) {
	return FromReader(bytes.NewReader(data), athlete)
}

// FromReader decodes a FIT stream. Sessions of sports without a packet schema
// are skipped; if none remain, ErrUnsupportedSport is returned.
func FromReader(r io.Reader, athlete Athlete) ([]fitness.Packet, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("activity file has no session message")
	}

	packets := make([]fitness.Packet, 0, len(activity.Sessions))
	var skipped []string
	for _, session := range activity.Sessions {
		if session == nil {
			continue
		}
		p, err := SessionPacket(session, athlete)
		if errors.Is(err, ErrUnsupportedSport) {
			skipped = append(skipped, session.Sport.String())
			continue
		}
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
	if len(packets) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSport, skipped)
	}
	return packets, nil
}

// SessionPacket maps one FIT session onto the positional packet layout of its
// activity. Run and walk strides become steps; swim cycles are strokes as is.
// Invalid FIT values become zero so that validation rejects them.
func SessionPacket(session *fit.SessionMsg, athlete Athlete) (fitness.Packet, error) {
	code, err := CodeForSport(session.Sport)
	if err != nil {
		return fitness.Packet{}, err
	}

	cycles := float64(validUint32(session.TotalCycles))
	hours := float64(validUint32(session.TotalTimerTime)) / 1000.0 / secondsPerHour

	switch code {
	case fitness.CodeSwimming:
		poolLength := float64(validUint16(session.PoolLength)) / 100.0
		lengths := float64(validUint16(session.NumActiveLengths))
		return fitness.NewPacket(code, cycles, hours, athlete.WeightKG, poolLength, lengths), nil
	case fitness.CodeWalking:
		return fitness.NewPacket(code, cycles*stepsPerStride, hours, athlete.WeightKG, athlete.HeightCM), nil
	default:
		return fitness.NewPacket(code, cycles*stepsPerStride, hours, athlete.WeightKG), nil
	}
}

// CodeForSport maps a FIT sport onto an activity code.
func CodeForSport(sport fit.Sport) (fitness.Code, error) {
	switch sport {
	case fit.SportRunning:
		return fitness.CodeRunning, nil
	case fit.SportWalking:
		return fitness.CodeWalking, nil
	case fit.SportSwimming:
		return fitness.CodeSwimming, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSport, sport)
	}
}

func validUint16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}

func validUint32(v uint32) uint32 {
	if v == math.MaxUint32 {
		return 0
	}
	return v
}
