package bearsamplr

// CubicInterpolate evaluates a Catmull-Rom spline through four consecutive
// samples y0..y3 at fractional position x between y1 and y2 (0 <= x <= 1).
// Both the playback engine and the offline resampler use it, so that a sample
// sounds the same whether it was resampled at load time or pitched at play
// time.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1
	return ((a0*x+a1)*x+a2)*x + a3
}
