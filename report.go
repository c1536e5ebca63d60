package fitness

import (
	"fmt"
	"strings"
)

// InfoMessage is the training report handed to formatters.
type InfoMessage struct {
	TrainingType string  `json:"training_type"`
	Duration     float64 `json:"duration_h"`
	Distance     float64 `json:"distance_km"`
	Speed        float64 `json:"mean_speed_kmh"`
	Calories     float64 `json:"calories_kcal"`
}

// ShowTrainingInfo evaluates the variant formulas and packages the results.
func ShowTrainingInfo(t Training) InfoMessage {
	distance := t.Distance()
	speed := t.MeanSpeed()
	calories := t.SpentCalories()
	return InfoMessage{
		TrainingType: t.Name(),
		Duration:     t.DurationHours(),
		Distance:     distance,
		Speed:        speed,
		Calories:     calories,
	}
}

// Message renders the report as one line of text.
func (m InfoMessage) Message() string {
	return fmt.Sprintf(
		"Training type: %s; Duration: %.3f h; Distance: %.3f km; Mean speed: %.3f km/h; Calories burned: %.3f.",
		m.TrainingType,
		m.Duration,
		m.Distance,
		m.Speed,
		m.Calories,
	)
}

// BuildSummary renders one message per report, newline separated.
func BuildSummary(reports []InfoMessage) string {
	var b strings.Builder
	for _, r := range reports {
		b.WriteString(r.Message())
		b.WriteByte('\n')
	}
	return b.String()
}
