package stars

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ObjectKind uint8

const (
	Circle ObjectKind = iota
	Slider
	Spinner
)

// Object is a hit object normalized for difficulty evaluation.
// StackHeight is only written by the stack resolver; everything else is
// fixed once preprocessing returns.
type Object struct {
	Kind ObjectKind

	Time    float32
	EndTime float32

	Pos    mgl32.Vec2
	EndPos mgl32.Vec2

	// LazyEndPos is where a lazily moving cursor ends up after following the slider.
	LazyEndPos     mgl32.Vec2
	LazyTravelDist float32

	StackHeight float32
}

func (o *Object) IsCircle() bool  { return o.Kind == Circle }
func (o *Object) IsSlider() bool  { return o.Kind == Slider }
func (o *Object) IsSpinner() bool { return o.Kind == Spinner }

func newCircle(pos mgl32.Vec2, time float32) Object {
	return Object{
		Kind:       Circle,
		Time:       time,
		EndTime:    time,
		Pos:        pos,
		EndPos:     pos,
		LazyEndPos: pos,
	}
}

func newSpinner(pos mgl32.Vec2, time, endTime float32) Object {
	return Object{
		Kind:       Spinner,
		Time:       time,
		EndTime:    endTime,
		Pos:        pos,
		EndPos:     pos,
		LazyEndPos: pos,
	}
}

// applyStackOffset moves every position by the stack offset and scales time by the clock rate.
func (o *Object) applyStackOffset(scaleFactor, clockRate float32) {
	offset := o.StackHeight * scaleFactor
	shift := mgl32.Vec2{offset, offset}

	o.Pos = o.Pos.Add(shift)
	o.EndPos = o.EndPos.Add(shift)
	o.LazyEndPos = o.LazyEndPos.Add(shift)

	o.Time /= clockRate
	o.EndTime /= clockRate
}
