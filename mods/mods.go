// Package mods holds gameplay modifiers in the legacy osu! bit layout.
package mods

import (
	"fmt"
	"strings"
)

type Mods uint32

const (
	NoFail Mods = 1 << iota
	Easy
	TouchDevice
	Hidden
	HardRock
	SuddenDeath
	DoubleTime
	Relax
	HalfTime
	Nightcore // always set together with DoubleTime
	Flashlight
	Autoplay
	SpunOut
	Autopilot
	Perfect
)

const None Mods = 0

var acronyms = []struct {
	mod  Mods
	name string
}{
	{NoFail, "NF"},
	{Easy, "EZ"},
	{TouchDevice, "TD"},
	{Hidden, "HD"},
	{HardRock, "HR"},
	{SuddenDeath, "SD"},
	{DoubleTime, "DT"},
	{Relax, "RX"},
	{HalfTime, "HT"},
	{Nightcore, "NC"},
	{Flashlight, "FL"},
	{Autoplay, "AT"},
	{SpunOut, "SO"},
	{Autopilot, "AP"},
	{Perfect, "PF"},
}

func (m Mods) Has(other Mods) bool { return m&other == other }

func (m Mods) HR() bool { return m.Has(HardRock) }
func (m Mods) EZ() bool { return m.Has(Easy) }
func (m Mods) FL() bool { return m.Has(Flashlight) }
func (m Mods) RX() bool { return m.Has(Relax) }

// ClockRate is the playback speed multiplier.
func (m Mods) ClockRate() float32 {
	if m.Has(DoubleTime) || m.Has(Nightcore) {
		return 1.5
	}

	if m.Has(HalfTime) {
		return 0.75
	}

	return 1
}

// difficultyMods are the mods that change computed difficulty attributes.
const difficultyMods = Easy | HardRock | DoubleTime | HalfTime | Flashlight | Relax

// DifficultyMods drops every mod that cannot change the difficulty result,
// so equivalent mod sets compare equal. Nightcore folds into DoubleTime.
func (m Mods) DifficultyMods() Mods {
	if m.Has(Nightcore) {
		m |= DoubleTime
	}

	return m & difficultyMods
}

// String formats mods as concatenated acronyms, "NM" when empty.
// Nightcore hides its implied DoubleTime.
func (m Mods) String() string {
	var sb strings.Builder

	for _, a := range acronyms {
		if !m.Has(a.mod) {
			continue
		}

		if a.mod == DoubleTime && m.Has(Nightcore) {
			continue
		}

		sb.WriteString(a.name)
	}

	if sb.Len() == 0 {
		return "NM"
	}

	return sb.String()
}

// Parse reads concatenated acronyms like "HDHR" or "hd,dt".
// "NM" and the empty string mean no mods.
func Parse(s string) (Mods, error) {
	s = strings.ToUpper(strings.NewReplacer(",", "", " ", "", "+", "").Replace(s))

	if s == "" || s == "NM" || s == "NOMOD" {
		return None, nil
	}

	if len(s)%2 != 0 {
		return None, fmt.Errorf("invalid mod string %q", s)
	}

	var m Mods

outer:
	for i := 0; i < len(s); i += 2 {
		acronym := s[i : i+2]

		for _, a := range acronyms {
			if a.name == acronym {
				m |= a.mod
				continue outer
			}
		}

		return None, fmt.Errorf("unknown mod %q in %q", acronym, s)
	}

	if m.Has(Nightcore) {
		m |= DoubleTime
	}

	return m, nil
}
