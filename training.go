// Package fitness turns raw workout sensor packets into training reports:
// distance, mean speed and estimated energy expenditure per activity.
package fitness

import "math"

const (
	// MInKm converts meters to kilometers.
	MInKm = 1000.0
	// MinInHour converts hours to minutes.
	MinInHour = 60.0

	// LenStep is the distance covered by one step, in meters.
	LenStep = 0.65
	// SwimLenStep is the distance covered by one stroke, in meters.
	SwimLenStep = 1.38

	runCalorieSpeedMultiplier = 18.0
	runCalorieSpeedShift      = 20.0

	walkCalorieWeightMultiplier = 0.035
	walkCalorieSpeedMultiplier  = 0.029

	swimCalorieSpeedShift       = 1.1
	swimCalorieWeightMultiplier = 2.0
)

// Training is the metrics contract shared by every workout variant.
//
// The set of implementations is closed: Running, SportsWalking and Swimming.
type Training interface {
	Code() Code
	Name() string
	DurationHours() float64
	// Distance returns the covered distance in kilometers.
	Distance() float64
	// MeanSpeed returns the average speed over the session in km/h.
	MeanSpeed() float64
	// SpentCalories returns the estimated energy expenditure in kcal.
	SpentCalories() float64

	sealed()
}

// Session holds the measurements common to every workout.
type Session struct {
	Action   int     `json:"action"`
	Duration float64 `json:"duration_h"`
	Weight   float64 `json:"weight_kg"`
}

// DurationHours returns the session duration in hours.
func (s Session) DurationHours() float64 { return s.Duration }

func (s Session) distance(lenStep float64) float64 {
	return float64(s.Action) * lenStep / MInKm
}

// Running is a run session.
type Running struct {
	Session
}

// NewRunning builds a Running session.
func NewRunning(action int, duration, weight float64) *Running {
	return &Running{Session{Action: action, Duration: duration, Weight: weight}}
}

func (r *Running) Code() Code   { return CodeRunning }
func (r *Running) Name() string { return "Running" }
func (r *Running) sealed()      {}

func (r *Running) Distance() float64 { return r.distance(LenStep) }

func (r *Running) MeanSpeed() float64 { return r.Distance() / r.Duration }

func (r *Running) SpentCalories() float64 {
	return (runCalorieSpeedMultiplier*r.MeanSpeed() - runCalorieSpeedShift) *
		r.Weight / MInKm * (r.Duration * MinInHour)
}

// SportsWalking is a race-walking session. Height is in centimeters.
type SportsWalking struct {
	Session
	Height float64 `json:"height_cm"`
}

// NewSportsWalking builds a SportsWalking session.
func NewSportsWalking(action int, duration, weight, height float64) *SportsWalking {
	return &SportsWalking{
		Session: Session{Action: action, Duration: duration, Weight: weight},
		Height:  height,
	}
}

func (w *SportsWalking) Code() Code   { return CodeWalking }
func (w *SportsWalking) Name() string { return "SportsWalking" }
func (w *SportsWalking) sealed()      {}

func (w *SportsWalking) Distance() float64 { return w.distance(LenStep) }

func (w *SportsWalking) MeanSpeed() float64 { return w.Distance() / w.Duration }

// SpentCalories keeps the floored speed²/height term of the calibrated formula.
func (w *SportsWalking) SpentCalories() float64 {
	speed := w.MeanSpeed()
	return (walkCalorieWeightMultiplier*w.Weight +
		floorDiv(speed*speed, w.Height)*walkCalorieSpeedMultiplier*w.Weight) *
		(w.Duration * MinInHour)
}

// Swimming is a pool swim session. PoolLength is in meters.
type Swimming struct {
	Session
	PoolLength float64 `json:"pool_length_m"`
	PoolCount  int     `json:"pool_count"`
}

// NewSwimming builds a Swimming session.
func NewSwimming(action int, duration, weight, poolLength float64, poolCount int) *Swimming {
	return &Swimming{
		Session:    Session{Action: action, Duration: duration, Weight: weight},
		PoolLength: poolLength,
		PoolCount:  poolCount,
	}
}

func (s *Swimming) Code() Code   { return CodeSwimming }
func (s *Swimming) Name() string { return "Swimming" }
func (s *Swimming) sealed()      {}

// Distance is stroke based and only reported; speed uses the pool lengths.
func (s *Swimming) Distance() float64 { return s.distance(SwimLenStep) }

func (s *Swimming) MeanSpeed() float64 {
	return s.PoolLength * float64(s.PoolCount) / MInKm / s.Duration
}

func (s *Swimming) SpentCalories() float64 {
	return (s.MeanSpeed() + swimCalorieSpeedShift) * swimCalorieWeightMultiplier * s.Weight
}

// floorDiv is floored float division derived from fmod. It differs from
// math.Floor(a/b) when a/b rounds up to an integer: floorDiv(1, 0.1) is 9.
func floorDiv(a, b float64) float64 {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 && (b < 0) != (mod < 0) {
		div -= 1.0
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor += 1.0
	}
	return floor
}
