package beatmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"osustars/curve"
	"osustars/mutils"
)

const earlyVersionTimingOffset = 24

var ErrInvalidHeader = errors.New("invalid .osu header")

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secDifficulty
	secTimingPoints
	secHitObjects
)

func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return b, nil
}

func Decode(r io.Reader) (*Beatmap, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	version, err := readHeader(sc)
	if err != nil {
		return nil, err
	}

	b := &Beatmap{
		FormatVersion:    version,
		StackLeniency:    0.7,
		AR:               5,
		CS:               5,
		OD:               5,
		HP:               5,
		SliderMultiplier: 1.4,
		TickRate:         1,
	}

	offset := float32(0)
	if version < 5 {
		offset = earlyVersionTimingOffset
	}

	sec := secNone
	seenAR := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			switch strings.ToLower(line) {
			case "[general]":
				sec = secGeneral
			case "[metadata]":
				sec = secMetadata
			case "[difficulty]":
				sec = secDifficulty
			case "[timingpoints]":
				sec = secTimingPoints
			case "[hitobjects]":
				sec = secHitObjects
			default:
				sec = secNone
			}

			continue
		}

		switch sec {
		case secGeneral:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "stackleniency":
				b.StackLeniency = parseFloat(v, 0.7)
			case "mode":
				b.Mode = parseInt(v, 0)
			}

		case secMetadata:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "title":
				b.Metadata.Title = v
			case "artist":
				b.Metadata.Artist = v
			case "creator":
				b.Metadata.Creator = v
			case "version":
				b.Metadata.Version = v
			case "beatmapid":
				b.Metadata.BeatmapID = parseInt(v, 0)
			case "beatmapsetid":
				b.Metadata.BeatmapSetID = parseInt(v, 0)
			}

		case secDifficulty:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "hpdrainrate":
				b.HP = parseFloat(v, 5)
			case "circlesize":
				b.CS = parseFloat(v, 5)
			case "overalldifficulty":
				b.OD = parseFloat(v, 5)
				if !seenAR {
					b.AR = b.OD
				}
			case "approachrate":
				b.AR = parseFloat(v, 5)
				seenAR = true
			case "slidermultiplier":
				b.SliderMultiplier = parseFloat(v, 1.4)
			case "slidertickrate":
				b.TickRate = parseFloat(v, 1)
			}

		case secTimingPoints:
			b.parseTimingPoint(line, offset)

		case secHitObjects:
			if err := b.parseHitObject(line, offset); err != nil {
				return nil, err
			}
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	b.applyDifficultyRestrictions()

	return b, nil
}

func readHeader(sc *bufio.Scanner) (int, error) {
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}

		if !strings.HasPrefix(strings.ToLower(line), "osu file format v") {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHeader, line)
		}

		version, err := strconv.Atoi(strings.TrimSpace(line[len("osu file format v"):]))
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrInvalidHeader, line, err)
		}

		return version, nil
	}

	if err := sc.Err(); err != nil {
		return 0, err
	}

	return 0, fmt.Errorf("%w: empty input", ErrInvalidHeader)
}

func (b *Beatmap) parseTimingPoint(line string, offset float32) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return
	}

	time := parseFloat(parts[0], 0) + offset
	beatLength := parseFloat(parts[1], float32(math.NaN()))

	timingChange := true
	if len(parts) >= 7 {
		timingChange = strings.TrimSpace(parts[6]) == "1"
	}

	speedMultiplier := float32(1)
	if !timingChange && beatLength < 0 {
		speedMultiplier = mutils.Clamp(100/-beatLength, 0.1, 10)
	}

	if timingChange {
		b.TimingPoints = append(b.TimingPoints, TimingPoint{Time: time, BeatLength: beatLength})
	}

	b.DifficultyPoints = append(b.DifficultyPoints, DifficultyPoint{Time: time, SpeedMultiplier: speedMultiplier})
}

func (b *Beatmap) parseHitObject(line string, offset float32) error {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return fmt.Errorf("hit object %q: expected at least 4 fields", line)
	}

	x := parseFloat(parts[0], 0)
	y := parseFloat(parts[1], 0)
	flags := parseInt(parts[3], 0)

	h := HitObject{
		Pos:       mgl32.Vec2{float32(int(x)), float32(int(y))},
		StartTime: parseFloat(parts[2], 0) + offset,
		NewCombo:  flags&4 != 0,
	}

	switch {
	case flags&1 != 0:
		h.Kind = KindCircle

	case flags&2 != 0:
		if len(parts) < 8 {
			return fmt.Errorf("slider %q: expected at least 8 fields", line)
		}

		h.Kind = KindSlider
		h.Path = parseSliderPath(h.Pos, parts[5])
		h.Repeats = max(0, parseInt(parts[6], 1)-1)
		h.PixelLength = parseFloat(parts[7], 0)

	case flags&8 != 0:
		h.Kind = KindSpinner
		h.EndTime = h.StartTime
		if len(parts) >= 6 {
			h.EndTime = max(h.StartTime, parseFloat(parts[5], 0)+offset)
		}

	case flags&128 != 0:
		h.Kind = KindHold
		h.EndTime = h.StartTime
		if len(parts) >= 6 {
			end, _, _ := strings.Cut(parts[5], ":")
			h.EndTime = max(h.StartTime, parseFloat(end, 0)+offset)
		}

	default:
		return fmt.Errorf("hit object %q: unknown type %d", line, flags)
	}

	b.HitObjects = append(b.HitObjects, h)

	return nil
}

// parseSliderPath converts "B|x:y|x:y|..." into a typed path.
// The slider head is the first point; the string supplies the rest.
func parseSliderPath(head mgl32.Vec2, spec string) curve.Path {
	tokens := strings.Split(strings.TrimSpace(spec), "|")

	path := curve.Path{Type: curve.Bezier, Points: []mgl32.Vec2{head}}

	switch strings.ToUpper(strings.TrimSpace(tokens[0])) {
	case "L":
		path.Type = curve.Linear
	case "C":
		path.Type = curve.Catmull
	case "P":
		path.Type = curve.Perfect
	}

	for _, t := range tokens[1:] {
		xs, ys, ok := strings.Cut(strings.TrimSpace(t), ":")
		if !ok {
			continue
		}

		path.Points = append(path.Points, mgl32.Vec2{
			float32(parseInt(xs, int(head.X()))),
			float32(parseInt(ys, int(head.Y()))),
		})
	}

	return path
}

func (b *Beatmap) applyDifficultyRestrictions() {
	b.HP = mutils.Clamp(b.HP, 0, 10)
	b.OD = mutils.Clamp(b.OD, 0, 10)
	b.AR = mutils.Clamp(b.AR, 0, 10)
	b.CS = mutils.Clamp(b.CS, 0, 10)
	b.SliderMultiplier = mutils.Clamp(b.SliderMultiplier, 0.4, 3.6)
	b.TickRate = mutils.Clamp(b.TickRate, 0.5, 8)
}

// ---------- parsing helpers ----------

func splitKeyVal(line string) (key, val string) {
	k, v, _ := strings.Cut(line, ":")
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil || math.IsNaN(f) {
			return def
		}

		return int(f)
	}

	return v
}

func parseFloat(s string, def float32) float32 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}

	return float32(v)
}
