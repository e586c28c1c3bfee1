package curve

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Curve is a slider path rasterized into a polyline, with cumulative
// lengths so that positions can be looked up by progress.
type Curve struct {
	points   []mgl32.Vec2
	lengths  []float32
	distance float32
}

// New approximates path and fits its length to expectedLength.
// Returned positions are relative to the first control point.
func New(path Path, expectedLength float32) *Curve {
	c := &Curve{points: approximate(path)}
	c.calculateLength(path, expectedLength)

	return c
}

// Distance is the pixel length of the fitted curve.
func (c *Curve) Distance() float32 {
	return c.distance
}

// PositionAt returns the point at the given progress, clamped to [0, 1].
func (c *Curve) PositionAt(progress float32) mgl32.Vec2 {
	progress = max(0, min(1, progress))
	d := progress * c.distance

	return c.interpolateVertices(c.indexOfDistance(d), d)
}

func (c *Curve) calculateLength(path Path, expected float32) {
	var calculated float32

	c.lengths = append(c.lengths[:0], 0)

	for i := 0; i < len(c.points)-1; i++ {
		calculated += c.points[i+1].Sub(c.points[i]).Len()
		c.lengths = append(c.lengths, calculated)
	}

	if calculated == expected {
		c.distance = calculated
		return
	}

	cps := path.Points

	// In osu-stable, if the last two control points of a slider are equal, extension is not performed.
	if len(cps) >= 2 && cps[len(cps)-1] == cps[len(cps)-2] && expected > calculated {
		c.distance = calculated
		return
	}

	// The last length is always incorrect
	c.lengths = c.lengths[:len(c.lengths)-1]

	end := len(c.points) - 1

	if calculated > expected {
		for len(c.lengths) > 0 && c.lengths[len(c.lengths)-1] >= expected {
			c.lengths = c.lengths[:len(c.lengths)-1]
			c.points = c.points[:end]
			end--
		}
	}

	if end <= 0 {
		// The expected distance is negative or zero
		c.lengths = append(c.lengths, 0)
		c.distance = 0

		return
	}

	dir := c.points[end].Sub(c.points[end-1])
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}

	c.points[end] = c.points[end-1].Add(dir.Mul(expected - c.lengths[len(c.lengths)-1]))
	c.lengths = append(c.lengths, expected)
	c.distance = expected
}

func (c *Curve) indexOfDistance(d float32) int {
	return sort.Search(len(c.lengths), func(i int) bool {
		return c.lengths[i] >= d
	})
}

func (c *Curve) interpolateVertices(i int, d float32) mgl32.Vec2 {
	if len(c.points) == 0 {
		return mgl32.Vec2{}
	}

	if i <= 0 {
		return c.points[0]
	}

	if i >= len(c.points) {
		return c.points[len(c.points)-1]
	}

	p0, p1 := c.points[i-1], c.points[i]
	d0, d1 := c.lengths[i-1], c.lengths[i]

	// Avoid division by an almost-zero number in case two points are extremely close to each other.
	if mgl32.FloatEqualThreshold(d0, d1, 1e-3) {
		return p0
	}

	w := (d - d0) / (d1 - d0)

	return p0.Add(p1.Sub(p0).Mul(w))
}
