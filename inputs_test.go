package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"b.osu", "a.OSU", "notes.txt", filepath.Join("sub", "c.osu")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	single := filepath.Join(dir, "b.osu")

	inputs, err := collectInputs([]string{"129891", single, dir})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"129891",
		single,
		filepath.Join(dir, "a.OSU"),
		filepath.Join(dir, "b.osu"),
		filepath.Join(dir, "sub", "c.osu"),
	}

	if len(inputs) != len(want) {
		t.Fatalf("inputs = %v, want %v", inputs, want)
	}

	for i := range want {
		if inputs[i].String() != want[i] {
			t.Errorf("input %d = %s, want %s", i, inputs[i], want[i])
		}
	}

	if inputs[0].id != 129891 || inputs[0].path != "" {
		t.Errorf("id input = %+v", inputs[0])
	}
}

func TestCollectInputsErrors(t *testing.T) {
	if _, err := collectInputs([]string{filepath.Join(t.TempDir(), "missing.osu")}); err == nil {
		t.Error("missing file accepted")
	}

	if _, err := collectInputs([]string{t.TempDir()}); err == nil {
		t.Error("directory without maps accepted")
	}
}
