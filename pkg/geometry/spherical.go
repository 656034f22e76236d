package geometry

import "math"

// SphericalCoords converts a displacement into (r, theta, phi) where theta is
// the polar angle from +Z and phi the azimuth in the XY plane
func SphericalCoords(disp Vector3) (r, theta, phi float64) {
	r = disp.Length()
	theta = math.Atan2(math.Hypot(disp.X, disp.Y), disp.Z)
	phi = math.Atan2(disp.Y, disp.X)
	return r, theta, phi
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Zero vectors yield NaN.
func CosineSimilarity(a, b Vector3) float64 {
	return a.Dot(b) / a.Length() / b.Length()
}

// MeanRadiusArcDistance approximates the arc length between v1 and v2 around
// center using the mean of their radii
func MeanRadiusArcDistance(v1, v2, center Vector3) float64 {
	rv1 := v1.Sub(center)
	rv2 := v2.Sub(center)

	rmean := (rv1.Length() + rv2.Length()) / 2
	cos := math.Max(-1, math.Min(1, CosineSimilarity(rv1, rv2)))
	return rmean * math.Acos(cos)
}
