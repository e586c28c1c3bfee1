// Package stars computes osu!standard difficulty attributes and strain series.
//
// Evaluation is a pure function of the map, the mods and an optional cutoff of
// passed objects. It is sequential and does not touch shared state, so
// separate maps may be evaluated concurrently.
package stars

import (
	"osustars/beatmap"
	"osustars/math32"
	"osustars/mods"
)

// DifficultyAttributes is the result of a star rating evaluation.
type DifficultyAttributes struct {
	AR float32
	HP float32
	OD float32

	AimRating        float32
	SpeedRating      float32
	FlashlightRating float32

	NCircles  int
	NSliders  int
	NSpinners int
	MaxCombo  int

	Stars float32
}

// StrainSeries holds one combined strain value per elapsed section.
// Aim, Speed and Flashlight are the per-skill peaks the sums were built from;
// Flashlight is empty unless the flashlight mod is active.
type StrainSeries struct {
	SectionLength float32
	Strains       []float32

	// FirstSectionEnd is the rate-adjusted end time of the section of Strains[0].
	FirstSectionEnd float32

	Aim        []float32
	Speed      []float32
	Flashlight []float32
}

// evaluation is the shared state of Stars and Strains.
type evaluation struct {
	attrs DifficultyAttributes

	firstSectionEnd float32

	aim        *Skill
	speed      *Skill
	flashlight *Skill
}

func (e *evaluation) skills() []*Skill {
	if e.flashlight != nil {
		return []*Skill{e.aim, e.speed, e.flashlight}
	}

	return []*Skill{e.aim, e.speed}
}

// Stars evaluates the first passed objects of b, or all of them when passed
// is negative (see AllObjects).
func Stars(b *beatmap.Beatmap, m mods.Mods, passed int) DifficultyAttributes {
	e := evaluate(b, m, passed)
	if e.aim == nil {
		return e.attrs
	}

	aimRating := math32.Sqrt(e.aim.DifficultyValue()) * difficultyMultiplier

	var speedRating float32
	if !m.RX() {
		speedRating = math32.Sqrt(e.speed.DifficultyValue()) * difficultyMultiplier
	}

	var flashlightRating float32
	if e.flashlight != nil {
		flashlightRating = math32.Sqrt(e.flashlight.DifficultyValue()) * difficultyMultiplier
	}

	e.attrs.AimRating = aimRating
	e.attrs.SpeedRating = speedRating
	e.attrs.FlashlightRating = flashlightRating
	e.attrs.Stars = starRating(aimRating, speedRating, flashlightRating, e.flashlight != nil)

	return e.attrs
}

// Strains evaluates the whole map and returns the combined strain of every section.
func Strains(b *beatmap.Beatmap, m mods.Mods) StrainSeries {
	series := StrainSeries{SectionLength: SectionLength}

	e := evaluate(b, m, AllObjects)
	if e.aim == nil {
		return series
	}

	series.FirstSectionEnd = e.firstSectionEnd
	series.Aim = e.aim.Peaks()
	series.Speed = e.speed.Peaks()

	if e.flashlight != nil {
		series.Flashlight = e.flashlight.Peaks()
	}

	series.Strains = make([]float32, len(series.Aim))

	for i := range series.Strains {
		series.Strains[i] = series.Aim[i] + series.Speed[i]

		if series.Flashlight != nil {
			series.Strains[i] += series.Flashlight[i]
		}
	}

	return series
}

// basePerformance maps a skill rating onto the performance curve; it never drops below 1/100000.
func basePerformance(rating float32) float32 {
	base := 5*max(rating/difficultyMultiplier, 1) - 4

	return base * base * base / performanceFloorBase
}

func starRating(aim, speed, flashlight float32, fl bool) float32 {
	baseAim := basePerformance(aim)
	baseSpeed := basePerformance(speed)

	var baseFlashlight float32
	if fl {
		baseFlashlight = flashlight * flashlight * 25
	}

	base := math32.Pow(
		math32.Pow(baseAim, 1.1)+math32.Pow(baseSpeed, 1.1)+math32.Pow(baseFlashlight, 1.1),
		1/1.1,
	)

	if base <= starRatingThreshold {
		return 0
	}

	return math32.Cbrt(1.12) * 0.027 * (math32.Cbrt(performanceFloorBase/math32.Exp2(1/1.1)*base) + 4)
}

// evaluate runs the pipeline up to the saved section peaks. The skills are nil
// when fewer than two objects survive preprocessing.
func evaluate(b *beatmap.Beatmap, m mods.Mods, passed int) evaluation {
	attrs := b.Attributes(m)
	hitWindow := beatmap.DifficultyRangeOD(attrs.OD) / attrs.ClockRate

	e := evaluation{
		attrs: DifficultyAttributes{
			AR: attrs.AR,
			HP: attrs.HP,
			OD: (80 - hitWindow) / 6,
		},
	}

	hitObjects := b.HitObjects
	if passed >= 0 && passed < len(hitObjects) {
		hitObjects = hitObjects[:passed]
	}

	rawAR := b.AR
	if m.HR() {
		rawAR = min(rawAR*1.4, 10)
	} else if m.EZ() {
		rawAR *= 0.5
	}

	geo := newGeometry(attrs.CS)

	p := preprocessor{b: b, geo: geo, hr: m.HR()}
	objects := p.process(hitObjects)

	e.attrs.NCircles = p.nCircles
	e.attrs.NSliders = p.nSliders
	e.attrs.NSpinners = p.nSpinners
	e.attrs.MaxCombo = p.maxCombo

	if len(objects) < 2 {
		return e
	}

	resolveStacks(objects, b.FormatVersion, beatmap.DifficultyRangeAR(rawAR)*b.StackLeniency)

	scaleFactor := geo.scale * stackOffsetFactor
	for i := range objects {
		objects[i].applyStackOffset(scaleFactor, attrs.ClockRate)
	}

	e.aim = NewAimSkill()
	e.speed = NewSpeedSkill(hitWindow)

	if m.FL() {
		e.flashlight = NewFlashlightSkill(geo.scalingFactor)
	}

	skills := e.skills()

	// The first object has no strain of its own; sections start at the boundary after it.
	sectionEnd := math32.Ceil(objects[0].Time/SectionLength) * SectionLength

	// Pairs are derived one at a time; only the previous one is kept around.
	var prev DifficultyObject

	for i := 1; i < len(objects); i++ {
		var (
			lastLast *Object
			prevPair *DifficultyObject
		)
		if i >= 2 {
			lastLast = &objects[i-2]
			prevPair = &prev
		}

		h := newDifficultyObject(&objects[i], &objects[i-1], lastLast, prevPair, geo.scalingFactor)

		for h.Base.Time > sectionEnd {
			for _, s := range skills {
				// Nothing has been processed before the first pair.
				if i > 1 {
					s.SaveCurrentPeak()
				}

				s.StartNewSectionFrom(sectionEnd)
			}

			sectionEnd += SectionLength
		}

		if i == 1 {
			e.firstSectionEnd = sectionEnd
		}

		for _, s := range skills {
			s.Process(&h)
		}

		prev = h
	}

	for _, s := range skills {
		s.SaveCurrentPeak()
	}

	return e
}
