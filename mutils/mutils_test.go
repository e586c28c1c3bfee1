package mutils

import "testing"

func TestClamp(t *testing.T) {
	if v := Clamp(12.0, 0, 10); v != 10 {
		t.Errorf("Clamp(12) = %v, want 10", v)
	}
	if v := Clamp(-1, 0, 10); v != 0 {
		t.Errorf("Clamp(-1) = %v, want 0", v)
	}
	if v := Clamp(float32(0.5), 0, 1); v != 0.5 {
		t.Errorf("Clamp(0.5) = %v, want 0.5", v)
	}
}

func TestLerp(t *testing.T) {
	if v := Lerp(float32(100), 50, 0.5); v != 75 {
		t.Errorf("Lerp = %v, want 75", v)
	}
}
