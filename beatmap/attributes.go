package beatmap

import "osustars/mods"

const (
	arMax = 450
	arAvg = 1200
	arMin = 1800

	odMax = 20
	odAvg = 50
	odMin = 80
)

// Attributes are the difficulty settings of a map once mods are applied.
type Attributes struct {
	AR, OD, CS, HP float32
	ClockRate      float32
}

// DifficultyRange maps a 0-10 difficulty value onto [min, avg, max]
// by linear interpolation on either side of 5.
func DifficultyRange(value, max, avg, min float32) float32 {
	switch {
	case value > 5:
		return avg + (max-avg)*(value-5)/5
	case value < 5:
		return avg - (avg-min)*(5-value)/5
	default:
		return avg
	}
}

// DifficultyRangeAR converts an approach rate into the preempt time in ms.
func DifficultyRangeAR(ar float32) float32 {
	return DifficultyRange(ar, arMax, arAvg, arMin)
}

// DifficultyRangeOD converts an overall difficulty into the 300 hit window in ms.
func DifficultyRangeOD(od float32) float32 {
	return DifficultyRange(od, odMax, odAvg, odMin)
}

// Attributes applies the mod multipliers and the clock rate.
// AR is re-derived from the rate-adjusted preempt; OD stays rate-neutral so
// callers divide the hit window by ClockRate themselves.
func (b *Beatmap) Attributes(m mods.Mods) Attributes {
	multiplier := float32(1)
	if m.HR() {
		multiplier = 1.4
	} else if m.EZ() {
		multiplier = 0.5
	}

	clockRate := m.ClockRate()

	preempt := DifficultyRangeAR(min(b.AR*multiplier, 10)) / clockRate

	var ar float32
	if preempt > arAvg {
		ar = (arMin - preempt) / 120
	} else {
		ar = (arAvg-preempt)/150 + 5
	}

	cs := b.CS
	if m.HR() {
		cs = min(cs*1.3, 10)
	} else if m.EZ() {
		cs *= 0.5
	}

	return Attributes{
		AR:        ar,
		OD:        min(b.OD*multiplier, 10),
		CS:        cs,
		HP:        min(b.HP*multiplier, 10),
		ClockRate: clockRate,
	}
}
