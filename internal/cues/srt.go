package cues

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm rounded to the millisecond.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	msTotal := int(seconds*1000 + 0.5)
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp parses HH:MM:SS,mmm; a period separator is accepted.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	clock, frac, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(frac)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Format renders cues as SRT, renumbering from 1.
func Format(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cue.Text)
	}
	return b.String()
}

// Write renders cues as SRT to w.
func Write(w io.Writer, cues []Cue) error {
	if _, err := io.WriteString(w, Format(cues)); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// Parse reads SRT cues. Blocks without a valid timing line are rejected.
// Parsed cues carry no spans.
func Parse(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	var (
		out   []Cue
		block []string
		line  int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, err := parseBlock(block)
		block = block[:0]
		if err != nil {
			return fmt.Errorf("srt block ending line %d: %w", line, err)
		}
		out = append(out, cue)
		return nil
	}
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseBlock(lines []string) (Cue, error) {
	timing := 0
	index := 0
	if !strings.Contains(lines[0], "-->") {
		n, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return Cue{}, fmt.Errorf("invalid cue index %q", lines[0])
		}
		index = n
		timing = 1
	}
	if timing >= len(lines) {
		return Cue{}, fmt.Errorf("missing timing line")
	}
	startText, endText, ok := strings.Cut(lines[timing], "-->")
	if !ok {
		return Cue{}, fmt.Errorf("invalid timing line %q", lines[timing])
	}
	start, err := ParseTimestamp(startText)
	if err != nil {
		return Cue{}, err
	}
	// Drop position hints some writers append after the end time.
	endFields := strings.Fields(endText)
	if len(endFields) == 0 {
		return Cue{}, fmt.Errorf("invalid timing line %q", lines[timing])
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return Cue{}, err
	}
	text := strings.Join(lines[timing+1:], "\n")
	return Cue{
		Index:     index,
		Text:      text,
		Start:     start,
		End:       end,
		WordCount: len(strings.Fields(text)),
	}, nil
}
