package beatmap

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"osustars/curve"
	"osustars/mods"
)

const testMap = `osu file format v14

[General]
AudioFilename: audio.mp3
StackLeniency: 0.5
Mode: 0

[Metadata]
Title:Test Song
Artist:Someone
Creator:Mapper
Version:Insane
BeatmapID:123
BeatmapSetID:45

[Difficulty]
HPDrainRate:6
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1.8
SliderTickRate:2

[Events]
0,0,"bg.jpg",0,0

[TimingPoints]
1000,500,4,2,0,50,1,0
2000,-50,4,2,0,50,0,0
3000,400,4,2,0,50,1,0

[HitObjects]
256,192,1000,5,0,0:0:0:0:
100,100,1500,2,0,B|200:100|200:200,2,180
256,192,2500,12,0,4000,0:0:0:0:
300,50,4500,1,0,0:0:0:0:
`

func TestDecode(t *testing.T) {
	b, err := Decode(strings.NewReader(testMap))
	if err != nil {
		t.Fatal(err)
	}

	if b.FormatVersion != 14 || b.Mode != 0 || b.StackLeniency != 0.5 {
		t.Errorf("general = v%d mode %d leniency %v", b.FormatVersion, b.Mode, b.StackLeniency)
	}

	if b.Metadata.Title != "Test Song" || b.Metadata.BeatmapID != 123 {
		t.Errorf("metadata = %+v", b.Metadata)
	}

	if b.AR != 9 || b.CS != 4 || b.OD != 8 || b.HP != 6 || b.SliderMultiplier != 1.8 || b.TickRate != 2 {
		t.Errorf("difficulty = ar %v cs %v od %v hp %v sm %v tr %v", b.AR, b.CS, b.OD, b.HP, b.SliderMultiplier, b.TickRate)
	}

	if len(b.TimingPoints) != 2 || len(b.DifficultyPoints) != 3 {
		t.Fatalf("timing points = %d, difficulty points = %d", len(b.TimingPoints), len(b.DifficultyPoints))
	}

	if len(b.HitObjects) != 4 {
		t.Fatalf("hit objects = %d, want 4", len(b.HitObjects))
	}

	kinds := make(map[HitObjectKind]int)
	for _, o := range b.HitObjects {
		kinds[o.Kind]++
	}

	if kinds[KindCircle] != 2 || kinds[KindSlider] != 1 || kinds[KindSpinner] != 1 {
		t.Errorf("kinds = %v", kinds)
	}

	slider := b.HitObjects[1]
	if !slider.IsSlider() || slider.Repeats != 1 || slider.PixelLength != 180 {
		t.Errorf("slider = %+v", slider)
	}

	if slider.Path.Type != curve.Bezier || len(slider.Path.Points) != 3 || slider.Path.Points[0] != (mgl32.Vec2{100, 100}) {
		t.Errorf("slider path = %+v", slider.Path)
	}

	spinner := b.HitObjects[2]
	if !spinner.IsSpinner() || spinner.EndTime != 4000 {
		t.Errorf("spinner = %+v", spinner)
	}
}

func TestDecodeEarlyVersionOffset(t *testing.T) {
	src := "osu file format v4\n\n[HitObjects]\n0,0,100,1,0\n"

	b, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if b.HitObjects[0].StartTime != 124 {
		t.Errorf("start time = %v, want 124", b.HitObjects[0].StartTime)
	}
}

func TestDecodeARDefaultsToOD(t *testing.T) {
	src := "osu file format v5\n\n[Difficulty]\nOverallDifficulty:7\n"

	b, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if b.AR != 7 {
		t.Errorf("AR = %v, want 7", b.AR)
	}
}

func TestDecodeInvalidHeader(t *testing.T) {
	_, err := Decode(strings.NewReader("not a map\n"))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("err = %v, want ErrInvalidHeader", err)
	}
}

func TestTimingLookup(t *testing.T) {
	b, err := Decode(strings.NewReader(testMap))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		time       float32
		beatLength float32
		sv         float32
	}{
		{0, 500, 1},
		{1500, 500, 1},
		{2000, 500, 2},
		{2999, 500, 2},
		{3000, 400, 1},
	}

	for _, c := range cases {
		tp, ok := b.TimingPointAt(c.time)
		if !ok || tp.BeatLength != c.beatLength {
			t.Errorf("TimingPointAt(%v) = %v, want beat length %v", c.time, tp, c.beatLength)
		}

		if sv := b.SpeedMultiplierAt(c.time); sv != c.sv {
			t.Errorf("SpeedMultiplierAt(%v) = %v, want %v", c.time, sv, c.sv)
		}
	}
}

func TestDifficultyRange(t *testing.T) {
	cases := []struct {
		value, want float32
	}{
		{0, 80},
		{5, 50},
		{10, 20},
		{8, 32},
	}

	for _, c := range cases {
		if got := DifficultyRangeOD(c.value); got != c.want {
			t.Errorf("DifficultyRangeOD(%v) = %v, want %v", c.value, got, c.want)
		}
	}

	if got := DifficultyRangeAR(9); got != 600 {
		t.Errorf("DifficultyRangeAR(9) = %v, want 600", got)
	}
}

func TestAttributesWithMods(t *testing.T) {
	b := &Beatmap{AR: 9, CS: 4, OD: 8, HP: 6}

	attrs := b.Attributes(mods.HardRock)
	if attrs.AR != 10 || attrs.OD != 10 || attrs.HP != 8.4 || attrs.CS != 5.2 {
		t.Errorf("HR attributes = %+v", attrs)
	}

	attrs = b.Attributes(mods.Easy)
	if attrs.AR != 4.5 || attrs.OD != 4 || attrs.HP != 3 || attrs.CS != 2 {
		t.Errorf("EZ attributes = %+v", attrs)
	}

	attrs = b.Attributes(mods.DoubleTime)
	if attrs.ClockRate != 1.5 || attrs.OD != 8 {
		t.Errorf("DT attributes = %+v", attrs)
	}

	// AR9 preempt 600ms / 1.5 = 400ms -> AR 10.33
	if attrs.AR < 10.33 || attrs.AR > 10.34 {
		t.Errorf("DT AR = %v, want about 10.33", attrs.AR)
	}
}
