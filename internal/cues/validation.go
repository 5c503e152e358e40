package cues

import (
	"fmt"
	"math"
)

// DurationTolerance is how far the last cue may end from the audio duration
// before validation flags a mismatch.
const DurationTolerance = 2.0

// Validate checks a cue sequence for ordering, empty cues, and coverage of the
// audio. Returns issue codes; an empty slice means validation passed.
func Validate(cues []Cue, audioSeconds float64) []string {
	var issues []string
	if len(cues) == 0 {
		return append(issues, "empty_subtitle_file")
	}
	for i, cue := range cues {
		if cue.End < cue.Start {
			issues = append(issues, fmt.Sprintf("negative_duration: cue=%d", i+1))
		}
		if cue.WordCount == 0 {
			issues = append(issues, fmt.Sprintf("empty_text: cue=%d", i+1))
		}
		if i > 0 && cue.Start < cues[i-1].End-1e-3 {
			issues = append(issues, fmt.Sprintf("overlap: cue=%d", i+1))
		}
	}
	if first, last := cues[0].Start, cues[len(cues)-1].End; first == 0 && last == 0 {
		issues = append(issues, "no_valid_timestamps")
	}
	if audioSeconds > 0 {
		delta := audioSeconds - cues[len(cues)-1].End
		if math.Abs(delta) > DurationTolerance {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", delta))
		}
	}
	return issues
}
