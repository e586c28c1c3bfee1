// Package curve turns slider control points into an arc-length parameterized polyline.
package curve

import (
	"github.com/go-gl/mathgl/mgl32"

	"osustars/math32"
)

// constants chosen to mirror osu!lazer's PathApproximator
const (
	bezierTolerance = 0.25
	arcTolerance    = 0.1
	catmullDetail   = 50
)

type PathType uint8

const (
	Bezier PathType = iota
	Linear
	Catmull
	Perfect
)

func (t PathType) String() string {
	switch t {
	case Linear:
		return "L"
	case Catmull:
		return "C"
	case Perfect:
		return "P"
	default:
		return "B"
	}
}

// Path is the control point definition of a slider.
// The first point is the slider head.
type Path struct {
	Type   PathType
	Points []mgl32.Vec2
}

// FlipY mirrors every control point vertically inside the playfield.
func (p Path) FlipY(height float32) Path {
	points := make([]mgl32.Vec2, len(p.Points))
	for i, v := range p.Points {
		points[i] = mgl32.Vec2{v.X(), height - v.Y()}
	}
	return Path{Type: p.Type, Points: points}
}

// approximate returns a polyline for the path.
// Points are relative to the slider head.
func approximate(path Path) []mgl32.Vec2 {
	if len(path.Points) == 0 {
		return nil
	}

	head := path.Points[0]
	cps := make([]mgl32.Vec2, len(path.Points))
	for i, p := range path.Points {
		cps[i] = p.Sub(head)
	}

	switch path.Type {
	case Linear:
		return approximateLinear(cps)
	case Catmull:
		return approximateCatmull(cps)
	case Perfect:
		if len(cps) == 3 {
			if poly := approximateCircularArc(cps[0], cps[1], cps[2]); poly != nil {
				return poly
			}
		}
	}

	// Bezier with red-anchor segmentation
	var poly []mgl32.Vec2
	start := 0
	for i := 1; i <= len(cps); i++ {
		if i < len(cps) && cps[i] != cps[i-1] {
			continue
		}

		segment := cps[start:i]
		start = i

		if len(segment) < 2 {
			continue
		}

		pts := approximateBezier(segment)
		// Avoid duplicating the shared point between consecutive segments.
		if len(poly) > 0 && len(pts) > 0 && poly[len(poly)-1] == pts[0] {
			pts = pts[1:]
		}
		poly = append(poly, pts...)
	}

	if len(poly) == 0 {
		poly = append(poly, cps[0])
	}

	return poly
}

func approximateLinear(cps []mgl32.Vec2) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, 0, len(cps))
	return append(out, cps...)
}

// --- Bezier (adaptive subdivision, identical strategy to lazer) ---

func approximateBezier(cps []mgl32.Vec2) []mgl32.Vec2 {
	count := len(cps)
	out := make([]mgl32.Vec2, 0, count*4)

	left := make([]mgl32.Vec2, count*2-1)
	right := make([]mgl32.Vec2, count)
	mid := make([]mgl32.Vec2, count)

	toFlatten := [][]mgl32.Vec2{append([]mgl32.Vec2(nil), cps...)}

	for len(toFlatten) > 0 {
		parent := toFlatten[len(toFlatten)-1]
		toFlatten = toFlatten[:len(toFlatten)-1]

		if bezierFlatEnough(parent) {
			// Flat enough: emit the approximation of this piece via one more subdivision.
			bezierSubdivide(parent, left, right, mid)

			for i := 0; i < count-1; i++ {
				left[count+i] = right[i+1]
			}

			out = append(out, parent[0])

			for i := 1; i < count-1; i++ {
				index := 2 * i
				p := left[index-1].Add(left[index].Mul(2)).Add(left[index+1]).Mul(0.25)
				out = append(out, p)
			}

			continue
		}

		l := make([]mgl32.Vec2, count)
		r := make([]mgl32.Vec2, count)
		bezierSubdivide(parent, l, r, mid)

		// right is pushed first so that left is processed first
		toFlatten = append(toFlatten, r, l)
	}

	return append(out, cps[count-1])
}

func bezierFlatEnough(cps []mgl32.Vec2) bool {
	for i := 1; i < len(cps)-1; i++ {
		d := cps[i-1].Sub(cps[i].Mul(2)).Add(cps[i+1])
		if d.LenSqr() > bezierTolerance*bezierTolerance*4 {
			return false
		}
	}

	return true
}

// bezierSubdivide splits the curve at t=0.5 with de Casteljau.
// right is filled from the midpoint to the end.
func bezierSubdivide(cps, left, right, mid []mgl32.Vec2) {
	count := len(cps)
	copy(mid, cps)

	for i := 0; i < count; i++ {
		left[i] = mid[0]
		right[count-i-1] = mid[count-i-1]

		for j := 0; j < count-i-1; j++ {
			mid[j] = mid[j].Add(mid[j+1]).Mul(0.5)
		}
	}
}

// --- Catmull-Rom ---

func approximateCatmull(cps []mgl32.Vec2) []mgl32.Vec2 {
	n := len(cps)
	if n < 2 {
		return approximateLinear(cps)
	}

	out := make([]mgl32.Vec2, 0, (n-1)*catmullDetail*2)

	for i := 0; i < n-1; i++ {
		v1 := cps[i]
		if i > 0 {
			v1 = cps[i-1]
		}

		v2 := cps[i]

		v3 := v2.Add(v2).Sub(v1)
		if i < n-1 {
			v3 = cps[i+1]
		}

		v4 := v3.Add(v3).Sub(v2)
		if i < n-2 {
			v4 = cps[i+2]
		}

		for c := 0; c < catmullDetail; c++ {
			out = append(out,
				catmullPoint(v1, v2, v3, v4, float32(c)/catmullDetail),
				catmullPoint(v1, v2, v3, v4, float32(c+1)/catmullDetail),
			)
		}
	}

	return out
}

func catmullPoint(p0, p1, p2, p3 mgl32.Vec2, t float32) mgl32.Vec2 {
	t2 := t * t
	t3 := t2 * t

	return mgl32.Vec2{
		0.5 * (2*p1.X() + (-p0.X()+p2.X())*t + (2*p0.X()-5*p1.X()+4*p2.X()-p3.X())*t2 + (-p0.X()+3*p1.X()-3*p2.X()+p3.X())*t3),
		0.5 * (2*p1.Y() + (-p0.Y()+p2.Y())*t + (2*p0.Y()-5*p1.Y()+4*p2.Y()-p3.Y())*t2 + (-p0.Y()+3*p1.Y()-3*p2.Y()+p3.Y())*t3),
	}
}

// --- Perfect circle ---

// approximateCircularArc returns nil when the three points don't describe a usable arc,
// in which case callers fall back to bezier.
func approximateCircularArc(a, b, c mgl32.Vec2) []mgl32.Vec2 {
	// Collinear or nearly so
	if math32.Abs((b.Y()-a.Y())*(c.X()-a.X())-(b.X()-a.X())*(c.Y()-a.Y())) < 1e-3 {
		return nil
	}

	d := 2 * (a.X()*(b.Y()-c.Y()) + b.X()*(c.Y()-a.Y()) + c.X()*(a.Y()-b.Y()))
	aSq, bSq, cSq := a.LenSqr(), b.LenSqr(), c.LenSqr()

	centre := mgl32.Vec2{
		aSq*(b.Y()-c.Y()) + bSq*(c.Y()-a.Y()) + cSq*(a.Y()-b.Y()),
		aSq*(c.X()-b.X()) + bSq*(a.X()-c.X()) + cSq*(b.X()-a.X()),
	}.Mul(1 / d)

	dA := a.Sub(centre)
	dC := c.Sub(centre)

	r := dA.Len()

	thetaStart := math32.Atan2(dA.Y(), dA.X())
	thetaEnd := math32.Atan2(dC.Y(), dC.X())

	for thetaEnd < thetaStart {
		thetaEnd += 2 * math32.Pi
	}

	dir := float32(1)
	thetaRange := thetaEnd - thetaStart

	// Decide in which direction to draw the circle, depending on which side of AC B lies.
	orthoAtoC := c.Sub(a)
	orthoAtoC = mgl32.Vec2{orthoAtoC.Y(), -orthoAtoC.X()}

	if orthoAtoC.Dot(b.Sub(a)) < 0 {
		dir = -dir
		thetaRange = 2*math32.Pi - thetaRange
	}

	amountPoints := 2
	if 2*r > arcTolerance {
		amountPoints = max(2, int(math32.Ceil(thetaRange/(2*math32.Acos(1-arcTolerance/r)))))
	}

	out := make([]mgl32.Vec2, 0, amountPoints)

	for i := 0; i < amountPoints; i++ {
		fract := float32(i) / float32(amountPoints-1)
		theta := thetaStart + dir*fract*thetaRange
		out = append(out, centre.Add(mgl32.Vec2{math32.Cos(theta), math32.Sin(theta)}.Mul(r)))
	}

	return out
}
