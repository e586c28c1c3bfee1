package mutils

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp[T constraints.Float](start, end, t T) T {
	return start + (end-start)*t
}
