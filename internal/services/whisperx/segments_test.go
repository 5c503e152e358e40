package whisperx

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestParseAndFlattenWords(t *testing.T) {
	doc := `{"segments":[
		{"text":"He is 17","start":1.0,"end":2.0,"words":[
			{"word":" He","start":1.0,"end":1.2,"score":0.9},
			{"word":"is","start":1.2,"end":1.4},
			{"word":"17"}
		]},
		{"text":"then","start":2.5,"end":3.0,"words":[
			{"word":"then","end":3.0}
		]}
	]}`
	segments, err := ParseSegments([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSegments: %v", err)
	}
	words := FlattenWords(segments)
	want := []struct {
		surface    string
		start, end float64
	}{
		{"He", 1.0, 1.2},
		{"is", 1.2, 1.4},
		{"17", 1.4, 2.0},
		{"then", 2.5, 3.0},
	}
	if len(words) != len(want) {
		t.Fatalf("got %d words: %+v", len(words), words)
	}
	for i, w := range want {
		got := words[i]
		if got.Surface != w.surface || math.Abs(got.Start-w.start) > 1e-9 || math.Abs(got.End-w.end) > 1e-9 || got.Position != i {
			t.Errorf("word %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestFlattenWordsMissingEndUsesNextStart(t *testing.T) {
	start := func(v float64) *float64 { return &v }
	segments := []Segment{{
		Start: 0, End: 2,
		Words: []Word{
			{Word: "one", Start: start(0.1)},
			{Word: "two"},
			{Word: "three", Start: start(0.9), End: start(1.3)},
		},
	}}
	words := FlattenWords(segments)
	if words[0].End != 0.9 || words[1].Start != 0.9 || words[1].End != 0.9 {
		t.Fatalf("words = %+v", words)
	}
}

func TestFlattenWordsSegmentWithoutWords(t *testing.T) {
	words := FlattenWords([]Segment{{Text: "I went home", Start: 0, End: 0.9}})
	if len(words) != 3 {
		t.Fatalf("words = %+v", words)
	}
	if math.Abs(words[1].Start-0.3) > 1e-9 || math.Abs(words[2].End-0.9) > 1e-9 {
		t.Fatalf("words = %+v", words)
	}
}

func TestFlattenWordsNeverDecreases(t *testing.T) {
	start := func(v float64) *float64 { return &v }
	words := FlattenWords([]Segment{{
		Start: 0, End: 3,
		Words: []Word{
			{Word: "a", Start: start(1.0), End: start(2.0)},
			{Word: "b", Start: start(0.5), End: start(0.8)},
			{Word: " "},
		},
	}})
	if len(words) != 2 {
		t.Fatalf("blank words should be skipped: %+v", words)
	}
	if words[1].Start != 2.0 || words[1].End != 2.0 {
		t.Fatalf("words = %+v", words)
	}
}

func TestLoadSegmentsAndEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	data, err := EncodeSegments([]Segment{{Text: "hello there", Start: 0, End: 1}})
	if err != nil {
		t.Fatalf("EncodeSegments: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	segments, err := LoadSegments(path)
	if err != nil {
		t.Fatalf("LoadSegments: %v", err)
	}
	if Text(segments) != "hello there" {
		t.Fatalf("Text = %q", Text(segments))
	}
	if _, err := ParseSegments([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
