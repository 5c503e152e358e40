package expansion

import "testing"

func TestExpandText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			input: "AITA for telling my 17M brother he's being ridiculous?",
			want:  "Am I the asshole for telling my seventeen m brother he is being ridiculous?",
		},
		{
			input: "I (25F) just found out my BF (28M) has been lying",
			want:  "I (twenty five f) just found out my boyfriend (twenty eight m) has been lying",
		},
		{
			input: "My SO won't stop and TBH it's annoying",
			want:  "My significant other will not stop and to be honest it is annoying",
		},
		{
			input: "IMO, y'all are overreacting.",
			want:  "In my opinion, you all are overreacting.",
		},
		{
			input: "He’s not going,   wasn't caught",
			want:  "He is not going, was not caught",
		},
		{
			input: "I'm sure",
			want:  "I am sure",
		},
		{input: "   ", want: ""},
	}
	for _, tt := range tests {
		if got := ExpandText(tt.input, Default()); got != tt.want {
			t.Errorf("ExpandText(%q)\n got  %q\n want %q", tt.input, got, tt.want)
		}
	}
}
