package logging

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

var infoHighlightKeys = []string{
	FieldEventType,
	FieldDecisionType,
	FieldDecisionResult,
	FieldDecisionReason,
	"error",
	FieldErrorHint,
	FieldImpact,
	"title",
	"span_source",
	"fallback_reason",
	"transcript_similarity",
	"cue_count",
	"token_count",
	"matched",
	"low_confidence",
	"low_confidence_ratio",
	"audio_duration",
	"stage_duration",
	"cache_hit",
	"validation_issues",
	"output",
	"jobs",
	"succeeded",
	"failed",
}

// selectInfoFields returns formatted info-level fields and a count of hidden entries.
// limit=0 means no limit. includeDebug controls whether debug-only keys are allowed.
func selectInfoFields(attrs []field, limit int, includeDebug bool) ([]infoField, int) {
	if len(attrs) == 0 {
		return nil, 0
	}
	if limit < 0 {
		limit = 0
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, infoAttrLimit)
	hidden := 0

	accept := func(idx int) {
		used[idx] = true
		attr := attrs[idx]
		if skipInfoKey(attr.key) {
			return
		}
		if !includeDebug && isDebugOnlyKey(attr.key) {
			hidden++
			return
		}
		val := formatValueForKey(attr.key, attr.value)
		if !includeDebug && shouldHideInfoValue(attr.key, val) {
			hidden++
			return
		}
		if limit > 0 && len(result) >= limit {
			hidden++
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: val})
	}

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				accept(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			accept(idx)
		}
	}
	return result, hidden
}

// formatValueForKey applies display formatting based on the key name.
func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()

	switch {
	case isByteSizeKey(key) && v.Kind() == slog.KindInt64:
		return humanize.IBytes(uint64(max(v.Int64(), 0)))
	case isByteSizeKey(key) && v.Kind() == slog.KindUint64:
		return humanize.IBytes(v.Uint64())
	case v.Kind() == slog.KindDuration:
		return formatDurationHuman(v.Duration())
	case isSecondsKey(key) && v.Kind() == slog.KindFloat64:
		return formatDurationHuman(time.Duration(v.Float64() * float64(time.Second)))
	case isRatioKey(key) && v.Kind() == slog.KindFloat64:
		return fmt.Sprintf("%.1f%%", v.Float64()*100)
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	}

	value := formatValue(v)
	if key == "error" {
		value = truncateErrorValue(value)
	}
	return value
}

func isByteSizeKey(key string) bool {
	return strings.HasSuffix(key, "_bytes") || key == "size"
}

func isSecondsKey(key string) bool {
	return key == "audio_duration" || strings.HasSuffix(key, "_seconds")
}

func isRatioKey(key string) bool {
	return strings.HasSuffix(key, "_ratio") || key == "transcript_similarity"
}

func formatDurationHuman(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func truncateErrorValue(value string) string {
	value = strings.TrimSpace(value)
	const maxLen = 200
	if len(value) > maxLen {
		value = value[:maxLen] + "…"
	}
	return value
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldJobID, FieldStage, FieldComponent, FieldSessionID:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case "", FieldCorrelationID, "command", "args", "model_dir", "segments", "word_count":
		return true
	}
	if strings.HasSuffix(key, "_id") {
		return true
	}
	if strings.HasPrefix(key, "ffprobe.") || strings.HasPrefix(key, "whisperx.") {
		return true
	}
	return strings.Contains(key, "_path") || strings.Contains(key, "_dir")
}

func shouldHideInfoValue(key, value string) bool {
	switch key {
	case "error", FieldErrorHint, "title":
		return false
	}
	return len(value) > 120
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case FieldDecisionType:
		return "Decision"
	case FieldDecisionResult:
		return "Result"
	case FieldDecisionReason:
		return "Reason"
	case "span_source":
		return "Timing"
	case "fallback_reason":
		return "Fallback"
	case "transcript_similarity":
		return "Similarity"
	case "cue_count":
		return "Cues"
	case "token_count":
		return "Words"
	case "low_confidence":
		return "Low Confidence"
	case "low_confidence_ratio":
		return "Low Confidence Share"
	case "audio_duration":
		return "Audio"
	case "stage_duration":
		return "Duration"
	case "cache_hit":
		return "Cache Hit"
	case "validation_issues":
		return "Issues"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	if len(parts) == 0 {
		return key
	}
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

func infoSummaryKey(component, jobID string) string {
	if jobID = strings.TrimSpace(jobID); jobID != "" {
		return jobID
	}
	return component
}
