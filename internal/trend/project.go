// ABOUTME: Projects history entries into chart-ready numeric rows.
// ABOUTME: Pure functions: no state, no side effects, input never mutated.
package trend

import (
	"time"

	"github.com/harperreed/nutriwise/internal/models"
)

// DefaultLayout renders a short month+day label such as "Mar 4".
const DefaultLayout = "Jan 2"

// Point is one projected row, derived from a single history entry.
type Point struct {
	DateLabel string  `json:"date" yaml:"date"`
	Calories  float64 `json:"calories" yaml:"calories"`
	Protein   float64 `json:"protein" yaml:"protein"`
	Weight    float64 `json:"weight" yaml:"weight"`
}

// Series holds the same rows as parallel columns.
type Series struct {
	Labels   []string  `json:"labels" yaml:"labels"`
	Calories []float64 `json:"calories" yaml:"calories"`
	Protein  []float64 `json:"protein" yaml:"protein"`
	Weight   []float64 `json:"weight" yaml:"weight"`
}

// Projector formats date labels for a particular consumer.
type Projector struct {
	// Location is the consumer's time zone. Nil means time.Local.
	Location *time.Location
	// Layout is a time.Format layout. Empty means DefaultLayout.
	Layout string
}

// Project maps entries to rows using the local time zone and DefaultLayout.
func Project(entries []models.HistoryEntry) []Point {
	return Projector{}.Project(entries)
}

// Project maps each entry to one row, preserving order (oldest first).
func (p Projector) Project(entries []models.HistoryEntry) []Point {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	layout := p.Layout
	if layout == "" {
		layout = DefaultLayout
	}

	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		points = append(points, Point{
			DateLabel: e.Time().In(loc).Format(layout),
			Calories:  e.Plan.DailyCalories,
			Protein:   e.Plan.TotalProtein(),
			Weight:    e.Profile.Weight,
		})
	}
	return points
}

// Columns splits rows into parallel series for charting surfaces.
func Columns(points []Point) Series {
	s := Series{
		Labels:   make([]string, 0, len(points)),
		Calories: make([]float64, 0, len(points)),
		Protein:  make([]float64, 0, len(points)),
		Weight:   make([]float64, 0, len(points)),
	}
	for _, p := range points {
		s.Labels = append(s.Labels, p.DateLabel)
		s.Calories = append(s.Calories, p.Calories)
		s.Protein = append(s.Protein, p.Protein)
		s.Weight = append(s.Weight, p.Weight)
	}
	return s
}
