package answer

import (
	"testing"
	"time"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"star wars", "Star Wars"},
		{"minecraft", "Minecraft"},
		{"the legend of zelda", "The Legend Of Zelda"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Title(tt.in); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConjugate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"be", "is"},
		{"have", "has"},
		{"run", "runs"},
		{"feature", "features"},
		{"watch", "watches"},
		{"fix", "fixes"},
		{"carry", "carries"},
		{"play", "plays"},
		{"go", "goes"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Conjugate(tt.in); got != tt.want {
			t.Errorf("Conjugate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"Mario"}, "Mario"},
		{[]string{"Mario", "Zelda"}, "Mario and Zelda"},
		{[]string{"Mario", "Zelda", "Metroid"}, "Mario, Zelda and Metroid"},
	}

	for _, tt := range tests {
		if got := JoinList(tt.in); got != tt.want {
			t.Errorf("JoinList(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSentence(t *testing.T) {
	if got := Sentence("alice likes pizza"); got != "Alice likes pizza" {
		t.Errorf("unexpected %q", got)
	}
	if got := Sentence(""); got != "" {
		t.Errorf("unexpected %q", got)
	}
}

func TestDate(t *testing.T) {
	if got := Date(time.Unix(1321574400, 0)); got != "2011-11-18" {
		t.Errorf("unexpected date %q", got)
	}
}

func TestFact(t *testing.T) {
	if got := Fact("mario", "travel", "to", "the castle"); got != "Mario travels to the castle" {
		t.Errorf("unexpected %q", got)
	}
	if got := Fact("alice", "like", "", "pizza"); got != "Alice likes pizza" {
		t.Errorf("unexpected %q", got)
	}
}
