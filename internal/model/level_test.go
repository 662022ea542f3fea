package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestLevel_LabelRoundTrip(t *testing.T) {
	for i, l := range Levels() {
		if int(l) != i+1 {
			t.Errorf("expected %s to have value %d, got %d", l, i+1, int(l))
		}
		parsed, err := ParseLevel(l.String())
		if err != nil {
			t.Fatalf("ParseLevel(%q) failed: %v", l.String(), err)
		}
		if parsed != l {
			t.Errorf("expected %s, got %s", l, parsed)
		}
	}

	if _, err := ParseLevel("D1"); err == nil {
		t.Error("expected error for label outside the enum")
	}
	if l, _ := ParseLevel(" b2 "); l != B2 {
		t.Errorf("expected case-insensitive parse to B2, got %s", l)
	}
	if Level(9).String() != "UNKNOWN" {
		t.Errorf("expected out-of-range level to print UNKNOWN, got %s", Level(9))
	}
}

func TestNearestLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{4.55, C1},
		{4.25, B2},
		{4.5, B2}, // tie goes to the lower level
		{1.5, A1},
		{0.2, A1},
		{9, C2},
		{5.51, C2},
	}
	for _, tt := range tests {
		if got := NearestLevel(tt.score); got != tt.want {
			t.Errorf("NearestLevel(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestRoundLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{3.4, B1},
		{3.6, B2},
		{0, A1},
		{7.2, C2},
		{2.5, A2},
		{math.NaN(), A1},
	}
	for _, tt := range tests {
		if got := RoundLevel(tt.score); got != tt.want {
			t.Errorf("RoundLevel(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestLevelDistribution_Top(t *testing.T) {
	d := LevelDistribution{A1: 0.1, A2: 0.2, B1: 0.6, B2: 0.1}
	if top, p := d.Top(); top != B1 || p != 0.6 {
		t.Errorf("expected B1 at 0.6, got %s at %v", top, p)
	}

	tied := LevelDistribution{C1: 0.4, A2: 0.4, B1: 0.2}
	if top, _ := tied.Top(); top != A2 {
		t.Errorf("expected tie to resolve to A2, got %s", top)
	}

	if top, _ := (LevelDistribution{}).Top(); top != Unknown {
		t.Errorf("expected Unknown for empty distribution, got %s", top)
	}
}

func TestLevelDistribution_Validate(t *testing.T) {
	if err := (LevelDistribution{A1: 0.5, C2: 0.5}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (LevelDistribution{A1: -0.1}).Validate(); err == nil {
		t.Error("expected error for negative probability")
	}
	if err := (LevelDistribution{Level(7): 0.1}).Validate(); err == nil {
		t.Error("expected error for label outside the enum")
	}
	if err := (LevelDistribution{}).Validate(); err == nil {
		t.Error("expected error for empty distribution")
	}
}

func TestDistributionFromLabels(t *testing.T) {
	d, err := DistributionFromLabels(map[string]float64{"a1": 0.3, "B2": 0.7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d[A1] != 0.3 || d[B2] != 0.7 {
		t.Errorf("unexpected distribution: %v", d)
	}

	if _, err := DistributionFromLabels(map[string]float64{"UNKNOWN": 1}); err == nil {
		t.Error("expected error for UNKNOWN label")
	}
}

func TestTokenScore_JSON(t *testing.T) {
	data, err := json.Marshal(NewTokenScore("apple", "NOUN", 1.2))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out["level_label"] != "A1" {
		t.Errorf("expected level_label A1, got %v", out["level_label"])
	}

	data, _ = json.Marshal(TokenScore{Text: "zzz"})
	out = nil
	_ = json.Unmarshal(data, &out)
	if out["level_num"] != nil || out["level_label"] != nil {
		t.Errorf("expected null level for unknown token, got %v", out)
	}
}

func TestResult_DistributionJSONKeys(t *testing.T) {
	r := Result{Level: B1, Distribution: LevelDistribution{B1: 1}}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out struct {
		Level        string             `json:"level"`
		Distribution map[string]float64 `json:"distribution"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.Level != "B1" || out.Distribution["B1"] != 1 {
		t.Errorf("unexpected JSON: %s", data)
	}
}
