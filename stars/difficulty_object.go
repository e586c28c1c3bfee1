package stars

import (
	"osustars/math32"
)

// DifficultyObject describes one consecutive pair of objects (Last, Base)
// in the normalized space the skills operate on.
type DifficultyObject struct {
	Base     *Object
	Last     *Object
	LastLast *Object

	Delta      float32
	StrainTime float32

	JumpDist   float32
	TravelDist float32

	// Angle is only meaningful when HasAngle is set.
	Angle    float32
	HasAngle bool

	// Jump distance and strain time of the preceding pair, if any.
	PrevJumpDist   float32
	PrevStrainTime float32
	HasPrev        bool
}

func newDifficultyObject(base, last, lastLast *Object, prev *DifficultyObject, scalingFactor float32) DifficultyObject {
	delta := base.Time - last.Time

	h := DifficultyObject{
		Base:       base,
		Last:       last,
		LastLast:   lastLast,
		Delta:      delta,
		StrainTime: max(delta, minDeltaTime),
		TravelDist: last.LazyTravelDist * scalingFactor,
	}

	if !base.IsSpinner() {
		h.JumpDist = distance(base.Pos, last.LazyEndPos) * scalingFactor
	}

	if lastLast != nil {
		v1 := lastLast.LazyEndPos.Sub(last.Pos)
		v2 := base.Pos.Sub(last.LazyEndPos)

		dot := v1.Dot(v2)
		det := v1.X()*v2.Y() - v1.Y()*v2.X()

		h.Angle = math32.Abs(math32.Atan2(det, dot))
		h.HasAngle = true
	}

	if prev != nil {
		h.PrevJumpDist = prev.JumpDist
		h.PrevStrainTime = prev.StrainTime
		h.HasPrev = true
	}

	return h
}
