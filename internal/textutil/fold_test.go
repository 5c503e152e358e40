package textutil

import "testing"

func TestFold(t *testing.T) {
	tests := map[string]string{
		"HELLO":  "hello",
		"He’s":   "he's",
		"Straße": "strasse",
		"":       "",
	}
	for input, want := range tests {
		if got := Fold(input); got != want {
			t.Errorf("Fold(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSplitAffixes(t *testing.T) {
	tests := []struct {
		word              string
		lead, core, trail string
	}{
		{"home.", "", "home", "."},
		{"(25F)", "(", "25F", ")"},
		{"\"Really?!\"", "\"", "Really", "?!\""},
		{"he's", "", "he's", ""},
		{"9:30,", "", "9:30", ","},
		{"—", "—", "", ""},
		{"plain", "", "plain", ""},
	}
	for _, tt := range tests {
		lead, core, trail := SplitAffixes(tt.word)
		if lead != tt.lead || core != tt.core || trail != tt.trail {
			t.Errorf("SplitAffixes(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.word, lead, core, trail, tt.lead, tt.core, tt.trail)
		}
	}
}

func TestComparisonForm(t *testing.T) {
	if got := ComparisonForm("  AITA? "); got != "aita" {
		t.Fatalf("ComparisonForm = %q, want aita", got)
	}
	if got := ComparisonForm("won’t,"); got != "won't" {
		t.Fatalf("ComparisonForm = %q, want won't", got)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		value, want string
	}{
		{"AITA for telling my brother?", "aita-for-telling-my-brother"},
		{"  --  ", "narration"},
		{"He's Gone!!", "hes-gone"},
	}
	for _, tt := range tests {
		if got := Slug(tt.value, "narration"); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
