// Package beatmap models a parsed osu! map: timing, difficulty settings and hit objects.
package beatmap

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"osustars/curve"
)

const (
	PlayfieldWidth  = 512
	PlayfieldHeight = 384
)

type HitObjectKind uint8

const (
	KindCircle HitObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

func (k HitObjectKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	default:
		return "hold"
	}
}

// HitObject is a raw note as it appears in the map file.
type HitObject struct {
	Pos       mgl32.Vec2
	StartTime float32
	Kind      HitObjectKind
	NewCombo  bool

	// Sliders only. Path.Points[0] is the head position.
	Path        curve.Path
	Repeats     int
	PixelLength float32

	// Spinners and holds only.
	EndTime float32
}

func (h *HitObject) IsCircle() bool  { return h.Kind == KindCircle }
func (h *HitObject) IsSlider() bool  { return h.Kind == KindSlider }
func (h *HitObject) IsSpinner() bool { return h.Kind == KindSpinner }

// TimingPoint is an uninherited ("red") control point.
type TimingPoint struct {
	Time       float32
	BeatLength float32
}

// DifficultyPoint carries the slider velocity multiplier.
// Every uninherited point resets it to 1.
type DifficultyPoint struct {
	Time            float32
	SpeedMultiplier float32
}

type Metadata struct {
	Title, Artist, Creator, Version string
	BeatmapID, BeatmapSetID         int
}

type Beatmap struct {
	FormatVersion int
	Mode          int
	StackLeniency float32

	AR, CS, OD, HP   float32
	SliderMultiplier float32
	TickRate         float32

	Metadata Metadata

	TimingPoints     []TimingPoint
	DifficultyPoints []DifficultyPoint
	HitObjects       []HitObject
}

// TimingPointAt returns the uninherited point active at time.
// Times before the first point use the first point.
func (b *Beatmap) TimingPointAt(time float32) (TimingPoint, bool) {
	if len(b.TimingPoints) == 0 {
		return TimingPoint{}, false
	}

	i := sort.Search(len(b.TimingPoints), func(i int) bool {
		return b.TimingPoints[i].Time > time
	})

	return b.TimingPoints[max(0, i-1)], true
}

// SpeedMultiplierAt returns the slider velocity multiplier active at time.
func (b *Beatmap) SpeedMultiplierAt(time float32) float32 {
	i := sort.Search(len(b.DifficultyPoints), func(i int) bool {
		return b.DifficultyPoints[i].Time > time
	})

	if i == 0 {
		return 1
	}

	return b.DifficultyPoints[i-1].SpeedMultiplier
}
