package analysis

import (
	"sort"

	"github.com/AllenInstitute/pycilium/pkg/fusion"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a sample
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
}

// Summarize computes descriptive statistics. The zero Summary is returned for
// an empty sample. StdDev is the sample standard deviation, zero for a single
// value.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// RadiusSummary describes the radii produced by a fusion run
type RadiusSummary struct {
	Summary
	// Unresolved counts vertices without a radius
	Unresolved int
	// MeanDistance is the mean vertex to surface distance
	MeanDistance float64
}

// SummarizeRadii computes statistics over the resolved radii
func SummarizeRadii(assignments fusion.Assignments) RadiusSummary {
	var radii []float64
	distances := make([]float64, 0, len(assignments))
	for _, a := range assignments {
		distances = append(distances, a.Distance)
		if a.Radius != nil {
			radii = append(radii, *a.Radius)
		}
	}

	result := RadiusSummary{
		Summary:    Summarize(radii),
		Unresolved: len(assignments) - len(radii),
	}
	if len(distances) > 0 {
		result.MeanDistance = stat.Mean(distances, nil)
	}
	return result
}
