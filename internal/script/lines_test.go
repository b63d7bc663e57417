package script

import (
	"strings"
	"testing"
)

func TestParseActivity(t *testing.T) {
	tests := []struct {
		id   string
		want Activity
	}{
		{"decorate_tree", ActivityDecorateTree},
		{"FEED_REINDEER", ActivityFeedReindeer},
		{" wrap_presents ", ActivityWrapPresents},
		{"ring_bells", ActivityRingBells},
		{"snowball_fight", ActivityUnknown},
		{"", ActivityUnknown},
	}

	for _, tt := range tests {
		if got := ParseActivity(tt.id); got != tt.want {
			t.Errorf("ParseActivity(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestActivityLine(t *testing.T) {
	line := ActivityLine(ActivityFeedReindeer, "Mia")
	if line.Speaker != SpeakerElf {
		t.Errorf("speaker = %v, want elf", line.Speaker)
	}
	if !strings.Contains(line.Text, "Mia") {
		t.Errorf("line should mention child name: %q", line.Text)
	}

	generic := ActivityLine(ActivityUnknown, "Mia")
	if generic.Text == "" || !strings.Contains(generic.Text, "Mia") {
		t.Errorf("unknown activity should get a generic named line: %q", generic.Text)
	}
}

func TestActivitySound(t *testing.T) {
	if got := ActivitySound(ActivityRingBells); got != "jingle" {
		t.Errorf("ActivitySound(ring_bells) = %q, want jingle", got)
	}
	if got := ActivitySound(ActivityUnknown); got != "" {
		t.Errorf("unknown activity should have no sound, got %q", got)
	}
}

func TestGenderTerm(t *testing.T) {
	tests := []struct{ gender, want string }{
		{"boy", "boy"},
		{"girl", "girl"},
		{"Girl", "girl"},
		{"", "child"},
		{"other", "child"},
	}
	for _, tt := range tests {
		if got := GenderTerm(tt.gender); got != tt.want {
			t.Errorf("GenderTerm(%q) = %q, want %q", tt.gender, got, tt.want)
		}
	}
}

func TestScriptLines_Interpolation(t *testing.T) {
	if got := SantaGreeting("Mia", "girl").Text; !strings.Contains(got, "Mia") || !strings.Contains(got, "girl") {
		t.Errorf("SantaGreeting = %q", got)
	}
	if got := ListResponse("mom").Text; !strings.Contains(got, "mom") {
		t.Errorf("ListResponse = %q", got)
	}
	if got := Goodbye("Mia").Text; got != "Merry Christmas Mia! Ho Ho Ho!" {
		t.Errorf("Goodbye = %q", got)
	}
	if ElfGreeting("Mia").Speaker != SpeakerElf {
		t.Error("ElfGreeting should be spoken by the elf")
	}
}

func TestActivityRecap(t *testing.T) {
	if line := ActivityRecap(nil); line.Text != "" {
		t.Errorf("recap with no activities should be empty, got %q", line.Text)
	}

	line := ActivityRecap([]Activity{ActivityDecorateTree, ActivityFeedReindeer})
	if !strings.Contains(line.Text, "decorating the tree and feeding the reindeer") {
		t.Errorf("recap = %q", line.Text)
	}
}

func TestJoinNatural(t *testing.T) {
	tests := []struct {
		items []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b and c"},
	}
	for _, tt := range tests {
		if got := JoinNatural(tt.items); got != tt.want {
			t.Errorf("JoinNatural(%v) = %q, want %q", tt.items, got, tt.want)
		}
	}
}
