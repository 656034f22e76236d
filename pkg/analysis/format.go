package analysis

import (
	"fmt"
	"math"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
)

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "nm"
	}
	return fmt.Sprintf("%.3f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// FormatAngle formats an angle given in radians as degrees
func FormatAngle(rad float64) string {
	return fmt.Sprintf("%.2f°", rad*180/math.Pi)
}

// FormatRadius formats an optional radius, "-" when unknown
func FormatRadius(r *float64) string {
	if r == nil {
		return "-"
	}
	return FormatMeasurement(*r, "")
}
