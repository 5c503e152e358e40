package whisperx

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"captionsync/internal/align"
)

// Word represents a single word with timing from WhisperX output. Timing
// fields are absent for tokens the aligner could not place.
type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

type payload struct {
	Segments []Segment `json:"segments"`
}

// ParseSegments decodes a WhisperX JSON document.
func ParseSegments(data []byte) ([]Segment, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return p.Segments, nil
}

// EncodeSegments renders segments in the WhisperX JSON layout.
func EncodeSegments(segments []Segment) ([]byte, error) {
	if segments == nil {
		segments = []Segment{}
	}
	return json.Marshal(payload{Segments: segments})
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	return ParseSegments(data)
}

// Text joins segment texts with single spaces.
func Text(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// FlattenWords returns every recognized word in order. Missing starts inherit
// the previous word's end; missing ends take the next timed start in the
// segment or the segment end. Segments without word timings are spread evenly
// across their own interval. Times never decrease.
func FlattenWords(segments []Segment) []align.RecognizedWord {
	var out []align.RecognizedWord
	prevEnd := 0.0
	emit := func(surface string, start, end float64) {
		start = max(start, prevEnd)
		end = max(end, start)
		out = append(out, align.RecognizedWord{
			Surface:  surface,
			Start:    start,
			End:      end,
			Position: len(out),
		})
		prevEnd = end
	}
	for _, seg := range segments {
		if len(seg.Words) == 0 {
			words := strings.Fields(seg.Text)
			if len(words) == 0 {
				continue
			}
			step := max(seg.End-seg.Start, 0) / float64(len(words))
			for i, w := range words {
				emit(w, seg.Start+float64(i)*step, seg.Start+float64(i+1)*step)
			}
			continue
		}
		for i, w := range seg.Words {
			surface := strings.TrimSpace(w.Word)
			if surface == "" {
				continue
			}
			start := max(prevEnd, seg.Start)
			if w.Start != nil {
				start = *w.Start
			}
			end := start
			if w.End != nil {
				end = *w.End
			} else if next := nextTimedStart(seg.Words[i+1:]); next != nil {
				end = *next
			} else if seg.End > start {
				end = seg.End
			}
			emit(surface, start, end)
		}
	}
	return out
}

func nextTimedStart(words []Word) *float64 {
	for _, w := range words {
		if w.Start != nil {
			return w.Start
		}
	}
	return nil
}
