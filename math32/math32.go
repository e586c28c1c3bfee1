// Package math32 wraps the float64 math package for single precision callers.
package math32

import "math"

const (
	Pi = float32(math.Pi)

	PiOver2 = float32(math.Pi / 2)
	PiOver3 = float32(math.Pi / 3)
	PiOver4 = float32(math.Pi / 4)
)

func Abs(x float32) float32 { return float32(math.Abs(float64(x))) }

func Sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }

func Cbrt(x float32) float32 { return float32(math.Cbrt(float64(x))) }

func Pow(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

func Exp2(x float32) float32 { return float32(math.Exp2(float64(x))) }

func Sin(x float32) float32 { return float32(math.Sin(float64(x))) }

func Cos(x float32) float32 { return float32(math.Cos(float64(x))) }

func Acos(x float32) float32 { return float32(math.Acos(float64(x))) }

func Atan2(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }

func Ceil(x float32) float32 { return float32(math.Ceil(float64(x))) }

func Floor(x float32) float32 { return float32(math.Floor(float64(x))) }

func Mod(x, y float32) float32 { return float32(math.Mod(float64(x), float64(y))) }

func NaN() float32 { return float32(math.NaN()) }

func IsNaN(x float32) bool { return x != x }

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}
