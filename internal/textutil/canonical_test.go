package textutil

import "testing"

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Kipfilet ", "kipfilet"},
		{"OLIJFOLIE", "olijfolie"},
		{"crème", "crème"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalName(tt.in); got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalNameIdempotent(t *testing.T) {
	in := "  Griekse Yoghurt "
	once := CanonicalName(in)
	if twice := CanonicalName(once); twice != once {
		t.Fatalf("CanonicalName not idempotent: %q then %q", once, twice)
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("hoofdgerechten"); got != "Hoofdgerechten" {
		t.Fatalf("TitleCase = %q", got)
	}
	if got := TitleCase("  "); got != "" {
		t.Fatalf("TitleCase(blank) = %q", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"puffy_pesto_pillows", "puffy_pesto_pillows"},
		{"Crème Brûlée", "creme-brulee"},
		{"  Kip & Rijst!! ", "kip-rijst"},
		{"", "unknown"},
		{"???", "unknown"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
