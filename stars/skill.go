package stars

import (
	"slices"

	"osustars/math32"
	"osustars/mutils"
)

type SkillKind uint8

const (
	Aim SkillKind = iota
	Speed
	Flashlight
)

func (k SkillKind) String() string {
	switch k {
	case Aim:
		return "aim"
	case Speed:
		return "speed"
	case Flashlight:
		return "flashlight"
	}

	return "unknown"
}

const (
	aimMultiplier = 26.25
	aimDecayBase  = 0.15

	aimAngleBonusBegin  = math32.Pi / 3
	aimTimingThreshold  = 107
	aimDistanceBonusMin = 90

	speedMultiplier = 1400
	speedDecayBase  = 0.3

	speedSingleSpacing   = 125
	speedAngleBonusBegin = 5 * math32.Pi / 6
	speedMinBonus        = 75
	speedMaxBonus        = 45
	speedBalancing       = 40

	flashlightMultiplier = 0.15
	flashlightDecayBase  = 0.15
	flashlightHistory    = 10

	rankDecayBase = 0.9
)

// Skill accumulates the decaying strain of one difficulty dimension and
// keeps the peak of every section.
type Skill struct {
	Kind SkillKind

	multiplier float32
	decayBase  float32
	rankDecay  float32

	// Speed only.
	hitWindow float32
	// Flashlight only.
	scalingFactor float32
	history       []DifficultyObject

	strain      float32
	sectionPeak float32
	prevTime    float32
	processed   bool

	peaks []float32
}

func NewAimSkill() *Skill {
	return &Skill{
		Kind:       Aim,
		multiplier: aimMultiplier,
		decayBase:  aimDecayBase,
		rankDecay:  rankDecayBase,
	}
}

// NewSpeedSkill takes the rate-adjusted 300 hit window in ms.
func NewSpeedSkill(hitWindow float32) *Skill {
	return &Skill{
		Kind:       Speed,
		multiplier: speedMultiplier,
		decayBase:  speedDecayBase,
		rankDecay:  rankDecayBase,
		hitWindow:  hitWindow,
	}
}

func NewFlashlightSkill(scalingFactor float32) *Skill {
	return &Skill{
		Kind:          Flashlight,
		multiplier:    flashlightMultiplier,
		decayBase:     flashlightDecayBase,
		rankDecay:     1,
		scalingFactor: scalingFactor,
		history:       make([]DifficultyObject, 0, flashlightHistory),
	}
}

func (s *Skill) decay(ms float32) float32 {
	return math32.Pow(s.decayBase, ms/1000)
}

// Process adds the strain of h. Pairs must be passed in chronological order.
func (s *Skill) Process(h *DifficultyObject) {
	s.strain *= s.decay(h.Delta)
	s.strain += s.strainValueOf(h) * s.multiplier
	s.sectionPeak = max(s.sectionPeak, s.strain)

	s.prevTime = h.Base.Time
	s.processed = true

	if s.Kind == Flashlight {
		s.pushHistory(h)
	}
}

// StartNewSectionFrom resets the section peak to the strain decayed up to time.
func (s *Skill) StartNewSectionFrom(time float32) {
	if !s.processed {
		s.sectionPeak = 0
		return
	}

	s.sectionPeak = s.strain * s.decay(time-s.prevTime)
}

func (s *Skill) SaveCurrentPeak() {
	s.peaks = append(s.peaks, s.sectionPeak)
}

// Peaks returns the saved section peaks in chronological order.
func (s *Skill) Peaks() []float32 {
	return s.peaks
}

// DifficultyValue is the rank-weighted sum of the section peaks, hardest first.
func (s *Skill) DifficultyValue() float32 {
	sorted := slices.Clone(s.peaks)
	slices.SortFunc(sorted, func(a, b float32) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}

		return 0
	})

	var total float32

	weight := float32(1)

	for _, peak := range sorted {
		total += peak * weight
		weight *= s.rankDecay
	}

	return total
}

// pushHistory keeps a copy of h, most recent pair at the front, so callers
// may reuse the pair they passed in.
func (s *Skill) pushHistory(h *DifficultyObject) {
	if len(s.history) < flashlightHistory {
		s.history = append(s.history, DifficultyObject{})
	}

	copy(s.history[1:], s.history[:len(s.history)-1])
	s.history[0] = *h
}

func (s *Skill) strainValueOf(h *DifficultyObject) float32 {
	if h.Base.IsSpinner() {
		return 0
	}

	switch s.Kind {
	case Aim:
		return aimStrainValue(h)
	case Speed:
		return speedStrainValue(h, s.hitWindow)
	case Flashlight:
		return s.flashlightStrainValue(h)
	}

	return 0
}

func applyDiminishingExp(x float32) float32 {
	return math32.Pow(x, 0.99)
}

func aimStrainValue(h *DifficultyObject) float32 {
	var result float32

	if h.HasPrev && h.HasAngle && h.Angle > aimAngleBonusBegin {
		scale := float32(aimDistanceBonusMin)

		s := math32.Sin(h.Angle - aimAngleBonusBegin)

		angleBonus := math32.Sqrt(
			max(h.PrevJumpDist-scale, 0) *
				s * s *
				max(h.JumpDist-scale, 0),
		)

		result = 1.4 * applyDiminishingExp(max(0, angleBonus)) / max(aimTimingThreshold, h.PrevStrainTime)
	}

	jumpExp := applyDiminishingExp(h.JumpDist)
	travelExp := applyDiminishingExp(h.TravelDist)

	distance := jumpExp + travelExp + math32.Sqrt(travelExp*jumpExp)

	return max(
		result+distance/max(h.StrainTime, aimTimingThreshold),
		distance/h.StrainTime,
	)
}

func speedStrainValue(h *DifficultyObject, hitWindow float32) float32 {
	distance := min(speedSingleSpacing, h.TravelDist+h.JumpDist)
	deltaTime := max(speedMaxBonus, h.Delta)

	strainTime := h.StrainTime
	greatWindowFull := hitWindow * 2

	// Nerf doubletappable rhythms where the previous gap is longer.
	if h.HasPrev && strainTime < greatWindowFull && h.PrevStrainTime > strainTime {
		strainTime = mutils.Lerp(h.PrevStrainTime, strainTime, strainTime/greatWindowFull)
	}

	// Cap deltatime to the OD 300 hitwindow.
	strainTime /= mutils.Clamp((strainTime/greatWindowFull)/0.93, 0.92, 1)

	speedBonus := float32(1)
	if deltaTime < speedMinBonus {
		b := (speedMinBonus - deltaTime) / speedBalancing
		speedBonus += b * b
	}

	angleBonus := float32(1)

	if h.HasAngle && h.Angle < speedAngleBonusBegin {
		s := math32.Sin(1.5 * (speedAngleBonusBegin - h.Angle))
		angleBonus = 1 + s*s/3.57

		if h.Angle < math32.PiOver2 {
			angleBonus = 1.28

			if distance < 90 {
				fade := (1 - angleBonus) * min((90-distance)/10, 1)

				if h.Angle < math32.PiOver4 {
					angleBonus += fade
				} else {
					angleBonus += fade * math32.Sin((math32.PiOver2-h.Angle)/math32.PiOver4)
				}
			}
		}
	}

	return (1 + (speedBonus-1)*0.75) *
		angleBonus *
		(0.95 + speedBonus*math32.Pow(distance/speedSingleSpacing, 3.5)) /
		strainTime
}

// flashlightStrainValue looks back over the history, which at this point
// does not yet contain h.
func (s *Skill) flashlightStrainValue(h *DifficultyObject) float32 {
	var (
		smallDistNerf        = float32(1)
		cumulativeStrainTime float32
		result               float32
	)

	for i := range s.history {
		prev := &s.history[i]
		if prev.Base.IsSpinner() {
			continue
		}

		jump := distance(h.Base.Pos, prev.Base.EndPos)
		cumulativeStrainTime += prev.StrainTime

		// Nerf the value when the cursor barely moves.
		if i == 0 {
			smallDistNerf = min(1, jump/75)
		}

		// Stacked objects are nearly free to read.
		stackNerf := min(1, (prev.JumpDist/s.scalingFactor)/25)

		result += math32.Pow(0.8, float32(i)) * stackNerf * s.scalingFactor * jump / cumulativeStrainTime
	}

	r := smallDistNerf * result

	return r * r
}
