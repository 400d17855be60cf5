package wasmhost

import (
	"math"
	"testing"

	"github.com/lixenwraith/bouncegolf/physics"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		a, b, want uint32
	}{
		{2, 2, 4},
		{0, 0, 0},
		{1 << 31, 1 << 30, 3 << 30},
		{math.MaxUint32, 1, 0},
		{math.MaxUint32, math.MaxUint32, math.MaxUint32 - 1},
	}

	for _, tt := range tests {
		if got := Add(tt.a, tt.b); got != tt.want {
			t.Errorf("Add(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStepObject(t *testing.T) {
	obj := map[string]any{
		"x": 500.0, "y": 250.0, "dx": 1.0, "dy": 0.0, "ts": 0.0,
		"color": "blue",
	}

	out := StepObject(MapReader(obj), 0.016)

	want := EncodeBall(physics.Step(physics.NewBall(500, 250, 1, 0, 0), 0.016))
	for k, v := range want {
		if out[k] != v {
			t.Errorf("Field %s = %v, want %v", k, out[k], v)
		}
	}
	if _, ok := out["color"]; ok {
		t.Error("Expected only numeric ball fields in the step result")
	}
}

func TestMapReaderMissingField(t *testing.T) {
	get := MapReader(map[string]any{"x": 1.0, "y": "tall"})

	if get("x") != 1.0 {
		t.Errorf("Expected x 1.0, got %v", get("x"))
	}
	if !math.IsNaN(get("y")) {
		t.Errorf("Expected non-numeric field to read as NaN, got %v", get("y"))
	}
	if !math.IsNaN(get("dx")) {
		t.Errorf("Expected missing field to read as NaN, got %v", get("dx"))
	}
}

func TestProjectObject(t *testing.T) {
	obj := map[string]any{"x": 100.0, "y": 300.0, "dx": 0.0, "dy": 0.0, "ts": 0.0}

	out := ProjectObject(MapReader(obj), math.Inf(1))
	if out["outcome"] != "resting" {
		t.Errorf("Expected resting outcome, got %v", out["outcome"])
	}
	if out["isStuckOnGround"] != true {
		t.Errorf("Expected isStuckOnGround true, got %v", out["isStuckOnGround"])
	}
}
