package stars

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"osustars/beatmap"
	"osustars/curve"
	"osustars/math32"
	"osustars/mutils"
)

const (
	defaultBeatLength = 1000
	minBeatLength     = 6
	maxBeatLength     = 60000
)

// geometry holds the circle-size derived values shared by every stage.
type geometry struct {
	scale         float32
	radius        float32
	scalingFactor float32
}

func newGeometry(cs float32) geometry {
	// Keep the radius positive and finite whatever the caller passed in.
	if !math32.IsFinite(cs) {
		cs = 5
	}

	cs = mutils.Clamp(cs, 0, 10)

	scale := (1 - 0.7*(cs-5)/5) / 2
	radius := objectRadius * scale
	scalingFactor := normalizedRadius / radius

	if radius < smallCircleThreshold {
		smallCircleBonus := min(smallCircleThreshold-radius, 5) / 50
		scalingFactor *= 1 + smallCircleBonus
	}

	return geometry{
		scale:         scale,
		radius:        radius,
		scalingFactor: scalingFactor,
	}
}

// preprocessor turns raw hit objects into normalized objects while counting combo.
type preprocessor struct {
	b   *beatmap.Beatmap
	geo geometry
	hr  bool

	maxCombo  int
	nCircles  int
	nSliders  int
	nSpinners int

	// reused between sliders
	nestedTimes []float32
}

func (p *preprocessor) process(hitObjects []beatmap.HitObject) []Object {
	objects := make([]Object, 0, len(hitObjects))

	for i := range hitObjects {
		if o, ok := p.newObject(&hitObjects[i]); ok {
			objects = append(objects, o)
		}
	}

	return objects
}

// newObject reports false for objects that must be dropped.
func (p *preprocessor) newObject(h *beatmap.HitObject) (Object, bool) {
	pos := h.Pos
	if p.hr {
		pos = mgl32.Vec2{pos.X(), beatmap.PlayfieldHeight - pos.Y()}
	}

	switch h.Kind {
	case beatmap.KindCircle:
		p.maxCombo++
		p.nCircles++

		return newCircle(pos, h.StartTime), true

	case beatmap.KindSlider:
		o, combo, ok := p.newSlider(h, pos)
		if !ok {
			return Object{}, false
		}

		p.maxCombo += combo
		p.nSliders++

		return o, true

	case beatmap.KindSpinner:
		p.maxCombo++
		p.nSpinners++

		return newSpinner(pos, h.StartTime, max(h.StartTime, h.EndTime)), true
	}

	return Object{}, false
}

// newSlider builds the slider object, its lazy cursor movement and combo.
func (p *preprocessor) newSlider(h *beatmap.HitObject, pos mgl32.Vec2) (Object, int, bool) {
	if !(h.PixelLength > 0) || len(h.Path.Points) < 2 {
		return Object{}, 0, false
	}

	path := h.Path
	if p.hr {
		path = path.FlipY(beatmap.PlayfieldHeight)
	}

	beatLength := float32(defaultBeatLength)
	if tp, ok := p.b.TimingPointAt(h.StartTime); ok {
		beatLength = tp.BeatLength
	}

	if !math32.IsFinite(beatLength) {
		return Object{}, 0, false
	}

	beatLength = mutils.Clamp(beatLength, minBeatLength, maxBeatLength)
	speedMultiplier := p.b.SpeedMultiplierAt(h.StartTime)

	scoringDistance := 100 * p.b.SliderMultiplier * speedMultiplier
	velocity := scoringDistance / beatLength

	tickDistance := scoringDistance / p.b.TickRate
	if p.b.FormatVersion < 8 {
		tickDistance /= speedMultiplier
	}

	c := curve.New(path, h.PixelLength)
	length := c.Distance()

	spanCount := float32(h.Repeats + 1)
	duration := spanCount * length / velocity

	if !(length > 0) || !(duration > 0) || !math32.IsFinite(duration) {
		return Object{}, 0, false
	}

	spanDuration := duration / spanCount
	start := h.StartTime

	// Scoring times of every nested object after the head: ticks, repeats and the legacy tail.
	times := p.nestedTimes[:0]
	nTicks := 0

	tickDistance = mutils.Clamp(tickDistance, 0, length)
	minDistanceFromEnd := velocity * 10

	for span := 0; span <= h.Repeats; span++ {
		spanStart := start + float32(span)*spanDuration
		reversed := span%2 == 1

		if tickDistance > 0 {
			for d := tickDistance; d <= length; d += tickDistance {
				if d >= length-minDistanceFromEnd {
					break
				}

				timeProgress := d / length
				if reversed {
					timeProgress = 1 - timeProgress
				}

				times = append(times, spanStart+timeProgress*spanDuration)
				nTicks++
			}
		}

		if span < h.Repeats {
			times = append(times, spanStart+spanDuration)
		}
	}

	finalSpanStart := start + float32(h.Repeats)*spanDuration
	times = append(times, max(start+duration/2, finalSpanStart+spanDuration-legacyLastTickOffset))

	slices.Sort(times)
	p.nestedTimes = times

	cursor := pos
	var travel float32

	followRadius := p.geo.radius * followCircleFactor

	for _, t := range times {
		progress := (t - start) / spanDuration
		if math32.Mod(progress, 2) >= 1 {
			progress = 1 - math32.Mod(progress, 1)
		} else {
			progress = math32.Mod(progress, 1)
		}

		diff := pos.Add(c.PositionAt(progress)).Sub(cursor)
		dist := diff.Len()

		// The cursor only moves once the path leaves the follow circle.
		if dist > followRadius {
			diff = diff.Mul(1 / dist)
			dist -= followRadius
			cursor = cursor.Add(diff.Mul(dist))
			travel += dist
		}
	}

	endProgress := float32(1)
	if h.Repeats%2 == 1 {
		endProgress = 0
	}

	o := Object{
		Kind:           Slider,
		Time:           start,
		EndTime:        start + duration,
		Pos:            pos,
		EndPos:         pos.Add(c.PositionAt(endProgress)),
		LazyEndPos:     cursor,
		LazyTravelDist: travel,
	}

	// head + ticks + repeats + tail
	combo := 1 + nTicks + h.Repeats + 1

	return o, combo, true
}
