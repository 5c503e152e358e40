package textutil

import "testing"

func TestCleanStory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips edit tail",
			input: "I went home.\n\nEdit: thanks everyone",
			want:  "I went home.",
		},
		{
			name:  "strips tldr tail",
			input: "Long story here. TL;DR: short story",
			want:  "Long story here.",
		},
		{
			name:  "unwraps markdown links and drops urls",
			input: "See [my post](https://reddit.com/x) and https://example.com now",
			want:  "See my post and now",
		},
		{
			name:  "removes emphasis and normalizes quotes",
			input: `She said **"no"** twice`,
			want:  "She said 'no' twice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanStory(tt.input); got != tt.want {
				t.Fatalf("CleanStory() = %q, want %q", got, tt.want)
			}
		})
	}
}
