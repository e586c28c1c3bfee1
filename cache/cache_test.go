package cache

import (
	"context"
	"path/filepath"
	"testing"

	"osustars/mods"
	"osustars/stars"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })

	return c
}

func TestChecksum(t *testing.T) {
	// md5 of the empty input
	if got := Checksum(nil); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("Checksum(nil) = %s", got)
	}
}

func TestPutGet(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	key := Key{Checksum: Checksum([]byte("map")), Mods: mods.HardRock | mods.Hidden, Passed: stars.AllObjects}
	want := stars.DifficultyAttributes{
		AR: 10, HP: 7, OD: 9.5,
		AimRating: 2.5, SpeedRating: 2.25, FlashlightRating: 0,
		NCircles: 100, NSliders: 50, NSpinners: 1, MaxCombo: 300,
		Stars: 5.25,
	}

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}

	if err := c.Put(ctx, key, want); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}

	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	// A different mod combination is a different entry.
	if _, ok, _ := c.Get(ctx, Key{Checksum: key.Checksum, Mods: mods.HardRock | mods.DoubleTime, Passed: stars.AllObjects}); ok {
		t.Error("entry found for other mods")
	}
}

func TestKeyIgnoresNonDifficultyMods(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	sum := Checksum([]byte("map"))
	a := stars.DifficultyAttributes{Stars: 6.5}

	if err := c.Put(ctx, Key{Checksum: sum, Mods: mods.HardRock, Passed: stars.AllObjects}, a); err != nil {
		t.Fatal(err)
	}

	for _, m := range []mods.Mods{
		mods.HardRock | mods.Hidden,
		mods.HardRock | mods.NoFail | mods.SuddenDeath | mods.Perfect,
	} {
		got, ok, err := c.Get(ctx, Key{Checksum: sum, Mods: m, Passed: stars.AllObjects})
		if err != nil || !ok || got.Stars != a.Stars {
			t.Errorf("%s: Get = %+v, %v, %v", m, got, ok, err)
		}
	}

	// Nightcore is stored under DoubleTime.
	if err := c.Put(ctx, Key{Checksum: sum, Mods: mods.Nightcore | mods.DoubleTime, Passed: stars.AllObjects}, a); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, Key{Checksum: sum, Mods: mods.DoubleTime | mods.Hidden, Passed: stars.AllObjects}); err != nil || !ok {
		t.Errorf("HDDT missed the NC entry: %v, %v", ok, err)
	}

	if _, ok, _ := c.Get(ctx, Key{Checksum: sum, Mods: mods.HalfTime, Passed: stars.AllObjects}); ok {
		t.Error("HT shares an entry with DT or HR")
	}
}

func TestPassedIsNormalized(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	a := stars.DifficultyAttributes{Stars: 1.5}

	if err := c.Put(ctx, Key{Checksum: "abc", Passed: -7}, a); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get(ctx, Key{Checksum: "abc", Passed: stars.AllObjects})
	if err != nil || !ok || got.Stars != 1.5 {
		t.Errorf("Get = %+v, %v, %v", got, ok, err)
	}
}

func TestStaleVersionIsIgnored(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	key := Key{Checksum: "abc", Passed: stars.AllObjects}
	if err := c.Put(ctx, key, stars.DifficultyAttributes{Stars: 3}); err != nil {
		t.Fatal(err)
	}

	if _, err := c.db.Exec(`UPDATE attributes SET version = version - 1`); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Errorf("stale entry returned: %v, %v", ok, err)
	}
}
