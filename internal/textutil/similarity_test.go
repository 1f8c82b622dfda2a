package textutil

import (
	"math"
	"testing"
)

func TestTokenSortRatioIgnoresOrder(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"identical", "kipfilet", "kipfilet"},
		{"swapped words", "rode ui", "ui rode"},
		{"case and punctuation", "Olijfolie, Extra", "extra olijfolie"},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenSortRatio(tt.a, tt.b); got != 100 {
				t.Errorf("TokenSortRatio(%q, %q) = %v, want 100", tt.a, tt.b, got)
			}
		})
	}
}

func TestTokenSortRatioPartialOverlap(t *testing.T) {
	// "olijfolie" is a full subsequence of "extra olijfolie vergine":
	// 2*9 / (9+23) = 56.25
	got := TokenSortRatio("olijfolie", "olijfolie extra vergine")
	if math.Abs(got-56.25) > 1e-9 {
		t.Fatalf("TokenSortRatio = %v, want 56.25", got)
	}
}

func TestTokenSortRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"halfvolle melk", "melk halfvol"},
		{"appel", "peer"},
		{"griekse yoghurt 10%", "yoghurt grieks"},
	}
	for _, p := range pairs {
		ab := TokenSortRatio(p[0], p[1])
		ba := TokenSortRatio(p[1], p[0])
		if ab != ba {
			t.Errorf("TokenSortRatio not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 100 {
			t.Errorf("TokenSortRatio(%q, %q) = %v out of range", p[0], p[1], ab)
		}
	}
}

func TestTokenSortRatioEmptyAgainstText(t *testing.T) {
	if got := TokenSortRatio("", "kaas"); got != 0 {
		t.Fatalf("TokenSortRatio(empty, text) = %v, want 0", got)
	}
}

func TestRatioDisjoint(t *testing.T) {
	if got := Ratio("abc", "xyz"); got != 0 {
		t.Fatalf("Ratio(disjoint) = %v, want 0", got)
	}
}

func TestTokenizeUnicode(t *testing.T) {
	got := Tokenize("Crème fraîche (30+)")
	want := []string{"crème", "fraîche", "30"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", got, want)
		}
	}
}
