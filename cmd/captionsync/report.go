package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"captionsync/internal/captions"
	"captionsync/internal/cues"
)

type spanJSON struct {
	Raw        string  `json:"raw"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence string  `json:"confidence"`
	Words      int     `json:"words"`
}

type cueJSON struct {
	Index int        `json:"index"`
	Text  string     `json:"text"`
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Spans []spanJSON `json:"spans"`
}

type statsJSON struct {
	Total              int     `json:"total"`
	Matched            int     `json:"matched"`
	Mismatched         int     `json:"mismatched"`
	ExpansionFallback  int     `json:"expansion_fallback"`
	Dropped            int     `json:"dropped"`
	Interpolated       int     `json:"interpolated"`
	Estimated          int     `json:"estimated"`
	LowConfidenceRatio float64 `json:"low_confidence_ratio"`
}

type resultJSON struct {
	JobID                string    `json:"job_id"`
	Output               string    `json:"output,omitempty"`
	Source               string    `json:"source"`
	FallbackReason       string    `json:"fallback_reason,omitempty"`
	TranscriptSimilarity float64   `json:"transcript_similarity"`
	AudioDuration        float64   `json:"audio_duration"`
	CacheHit             bool      `json:"cache_hit"`
	Stats                statsJSON `json:"stats"`
	Issues               []string  `json:"issues,omitempty"`
	ElapsedSeconds       float64   `json:"elapsed_seconds"`
	Cues                 []cueJSON `json:"cues"`
}

func newResultJSON(result captions.GenerateResult, output string) resultJSON {
	report := resultJSON{
		JobID:                result.JobID,
		Output:               output,
		Source:               result.Source,
		FallbackReason:       result.FallbackReason,
		TranscriptSimilarity: result.TranscriptSimilarity,
		AudioDuration:        result.AudioDuration,
		CacheHit:             result.CacheHit,
		Issues:               result.Issues,
		ElapsedSeconds:       result.Elapsed.Seconds(),
		Stats: statsJSON{
			Total:              result.Stats.Total,
			Matched:            result.Stats.Matched,
			Mismatched:         result.Stats.Mismatched,
			ExpansionFallback:  result.Stats.ExpansionFallback,
			Dropped:            result.Stats.Dropped,
			Interpolated:       result.Stats.Interpolated,
			Estimated:          result.Stats.Estimated,
			LowConfidenceRatio: result.Stats.LowConfidenceRatio(),
		},
		Cues: make([]cueJSON, 0, len(result.Cues)),
	}
	for _, cue := range result.Cues {
		entry := cueJSON{Index: cue.Index, Text: cue.Text, Start: cue.Start, End: cue.End}
		for _, span := range cue.Spans {
			entry.Spans = append(entry.Spans, spanJSON{
				Raw:        span.Token.Raw,
				Start:      span.Start,
				End:        span.End,
				Confidence: span.Confidence.String(),
				Words:      span.Words,
			})
		}
		report.Cues = append(report.Cues, entry)
	}
	return report
}

func printSummary(out io.Writer, result captions.GenerateResult, output string, colorize bool) {
	fmt.Fprintf(out, "Wrote %d cues to %s\n", len(result.Cues), output)
	source := result.Source
	kind := statusOK
	if result.FallbackReason != "" {
		source = fmt.Sprintf("%s (%s)", source, result.FallbackReason)
		kind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Timing", kind, source, colorize))
	matched := fmt.Sprintf("%d/%d tokens matched", result.Stats.Matched, result.Stats.Total)
	matchKind := statusOK
	if result.Stats.LowConfidenceRatio() > 0.25 {
		matchKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Alignment", matchKind, matched, colorize))
	fmt.Fprintln(out, renderStatusLine("Transcript cache", statusInfo, yesNo(result.CacheHit), colorize))
	if len(result.Issues) > 0 {
		fmt.Fprintln(out, renderStatusLine("Validation", statusWarn, strings.Join(result.Issues, "; "), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Validation", statusOK, "", colorize))
	}
}

func renderCueTable(list []cues.Cue) string {
	rows := make([][]string, 0, len(list))
	for _, cue := range list {
		rows = append(rows, []string{
			strconv.Itoa(cue.Index),
			cues.FormatTimestamp(cue.Start),
			cues.FormatTimestamp(cue.End),
			cue.Text,
			strconv.Itoa(cue.LowConfidence()),
		})
	}
	return renderTable(tableSpec{
		Headers: []string{"#", "Start", "End", "Text", "Low"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	})
}

func readTextFile(flag, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read --%s: %w", flag, err)
	}
	return string(data), nil
}
