package wfc

import "testing"

func TestDefaultRulesExcludeSameColor(t *testing.T) {
	r := DefaultRules()
	for _, c := range AllColors() {
		ex := r.Exclusions(c)
		if len(ex) != 1 || ex[0] != c {
			t.Errorf("Exclusions(%s) = %v, want [%s]", c, ex, c)
		}
	}
}

func TestCanBeAdjacent(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		a, b Color
		want bool
	}{
		{Red, Red, false},
		{Gray, Gray, false},
		{Red, Gray, true},
		{LightBlue, DarkBlue, true},
		{Green, Yellow, true},
	}

	for _, tc := range tests {
		if got := r.CanBeAdjacent(tc.a, tc.b); got != tc.want {
			t.Errorf("CanBeAdjacent(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSetExcludesOnZeroRules(t *testing.T) {
	var r Rules
	r.setExcludes(Red, Red, Yellow)
	if r.CanBeAdjacent(Yellow, Red) {
		t.Error("Yellow next to Red should be excluded")
	}
	if !r.CanBeAdjacent(Yellow, Green) {
		t.Error("Yellow next to Green should be allowed")
	}
}
