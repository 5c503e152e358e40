package align

import (
	"slices"
	"strconv"

	"captionsync/internal/expansion"
	"captionsync/internal/lexical"
	"captionsync/internal/textutil"
)

const (
	// DefaultSimilarityThreshold is the per-word similarity a match needs.
	DefaultSimilarityThreshold = 0.6
	// DefaultLookaheadWindow bounds insertion skipping for plain tokens.
	DefaultLookaheadWindow = 1
	// DefaultInterpolationPace is the per-token seconds used when the audio
	// duration does not extend past the last recognized word.
	DefaultInterpolationPace = 0.5

	// dropMargin is how much better a recognized word must fit the next
	// token before the current token is treated as skipped by the recognizer.
	dropMargin = 0.3
)

// Options tunes the aligner.
type Options struct {
	SimilarityThreshold float64
	// LookaheadWindow is how many recognized words may be skipped as
	// recognizer insertions. Zero disables insertion and drop recovery.
	LookaheadWindow   int
	InterpolationPace float64
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: DefaultSimilarityThreshold,
		LookaheadWindow:     DefaultLookaheadWindow,
		InterpolationPace:   DefaultInterpolationPace,
	}
}

func (o Options) normalized() Options {
	if o.SimilarityThreshold < 0 {
		o.SimilarityThreshold = 0
	}
	if o.SimilarityThreshold > 1 {
		o.SimilarityThreshold = 1
	}
	if o.LookaheadWindow < 0 {
		o.LookaheadWindow = 0
	}
	if o.InterpolationPace <= 0 {
		o.InterpolationPace = DefaultInterpolationPace
	}
	return o
}

// Alignment is the outcome of one alignment run.
type Alignment struct {
	Spans []TokenSpan
	// Consumed is the number of recognized words attributed to tokens.
	Consumed int
	// Skipped is the number of recognized words treated as insertions.
	Skipped int
	// Unused is the number of recognized words left after the last token.
	Unused int
}

// Stats summarizes the spans.
func (a Alignment) Stats() Stats {
	return Summarize(a.Spans)
}

// Aligner maps original tokens onto recognized words.
type Aligner struct {
	opts Options
}

// New returns an aligner with opts; out-of-range values are clamped.
func New(opts Options) *Aligner {
	return &Aligner{opts: opts.normalized()}
}

// Options returns the effective tuning.
func (a *Aligner) Options() Options {
	return a.opts
}

// Align assigns one span per token. duration is the total audio length in
// seconds and bounds interpolation when recognized words run out. The only
// error is ErrNoRecognizedWords, returned alongside zero-length spans.
func (a *Aligner) Align(tokens []lexical.Token, words []RecognizedWord, duration float64) (Alignment, error) {
	result := Alignment{Spans: make([]TokenSpan, 0, len(tokens))}
	if len(tokens) == 0 {
		return result, nil
	}
	if len(words) == 0 {
		for _, token := range tokens {
			result.Spans = append(result.Spans, TokenSpan{Token: token, Confidence: Dropped})
		}
		return result, ErrNoRecognizedWords
	}

	r := 0
	prevEnd := 0.0
	for i, token := range tokens {
		if r >= len(words) {
			last := max(prevEnd, words[len(words)-1].End)
			result.Spans = append(result.Spans, a.interpolate(tokens[i:], last, duration)...)
			break
		}
		var span TokenSpan
		var consumed, skipped int
		if token.IsExpandable() {
			span, consumed = a.alignExpandable(token, words[r:])
		} else {
			var next *lexical.Token
			if i+1 < len(tokens) {
				next = &tokens[i+1]
			}
			span, consumed, skipped = a.alignPlain(token, next, words[r:], prevEnd)
		}
		r += consumed + skipped
		result.Consumed += consumed
		result.Skipped += skipped
		if span.End > prevEnd {
			prevEnd = span.End
		}
		result.Spans = append(result.Spans, span)
	}
	result.Unused = max(len(words)-r, 0)
	enforceMonotonic(result.Spans)
	return result, nil
}

func (a *Aligner) alignExpandable(token lexical.Token, words []RecognizedWord) (TokenSpan, int) {
	first := words[0]
	// A recognizer that writes the contraction as one word ("hes") must not
	// have the following word pulled into a fuzzy multi-word match.
	collapsed := textutil.StripApostrophes(textutil.ComparisonForm(first.Surface)) == textutil.StripApostrophes(token.Surface)
	if !collapsed {
		if n, ok := a.matchSequence(token.Expansion, words); ok && n > 0 {
			return TokenSpan{
				Token:      token,
				Start:      first.Start,
				End:        words[n-1].End,
				Confidence: Matched,
				Words:      n,
			}, n
		}
	}
	return TokenSpan{
		Token:      token,
		Start:      first.Start,
		End:        first.End,
		Confidence: ExpansionFallback,
		Words:      1,
	}, 1
}

// alignPlain returns the span plus consumed and skipped word counts.
func (a *Aligner) alignPlain(token lexical.Token, next *lexical.Token, words []RecognizedWord, prevEnd float64) (TokenSpan, int, int) {
	if a.matchesToken(token, words[0].Surface) {
		return wordSpan(token, words[0], Matched), 1, 0
	}
	for j := 1; j <= a.opts.LookaheadWindow && j < len(words); j++ {
		if a.matchesToken(token, words[j].Surface) {
			return wordSpan(token, words[j], Matched), 1, j
		}
	}
	if a.opts.LookaheadWindow > 0 && next != nil && a.droppedByRecognizer(token, *next, words) {
		end := max(prevEnd, words[0].Start)
		return TokenSpan{Token: token, Start: prevEnd, End: end, Confidence: Dropped}, 0, 0
	}
	return wordSpan(token, words[0], Mismatched), 1, 0
}

// droppedByRecognizer reports whether words[0] belongs to next rather than
// token. next has to match clearly better than token does, and the word after
// must not already line up with next.
func (a *Aligner) droppedByRecognizer(token, next lexical.Token, words []RecognizedWord) bool {
	toNext := a.tokenSimilarity(next, words[0].Surface)
	if toNext < a.opts.SimilarityThreshold || toNext-a.tokenSimilarity(token, words[0].Surface) < dropMargin {
		return false
	}
	return len(words) < 2 || !a.matchesToken(next, words[1].Surface)
}

func (a *Aligner) matchesToken(token lexical.Token, word string) bool {
	return a.tokenSimilarity(token, word) >= a.opts.SimilarityThreshold
}

func (a *Aligner) tokenSimilarity(token lexical.Token, word string) float64 {
	sim := textutil.WordSimilarity(token.Surface, word)
	if token.IsExpandable() {
		sim = max(sim, textutil.WordSimilarity(token.Expansion[0], word))
	}
	return sim
}

// matchSequence returns how many recognized words cover expected. A numeral
// ("17") covers the spelled words it stands for.
func (a *Aligner) matchSequence(expected []string, words []RecognizedWord) (int, bool) {
	w := 0
	for e := 0; e < len(expected); w++ {
		if w >= len(words) {
			return 0, false
		}
		if spelled := numeralWords(words[w].Surface); len(spelled) > 0 && len(spelled) <= len(expected)-e &&
			slices.Equal(spelled, expected[e:e+len(spelled)]) {
			e += len(spelled)
			continue
		}
		if textutil.WordSimilarity(expected[e], words[w].Surface) < a.opts.SimilarityThreshold {
			return 0, false
		}
		e++
	}
	return w, true
}

func numeralWords(word string) []string {
	n, err := strconv.Atoi(textutil.ComparisonForm(word))
	if err != nil {
		return nil
	}
	return expansion.NumberWords(n)
}

// interpolate spreads tokens evenly from last to duration, or at a fixed pace
// when duration is not past last.
func (a *Aligner) interpolate(tokens []lexical.Token, last, duration float64) []TokenSpan {
	step := a.opts.InterpolationPace
	if duration > last {
		step = (duration - last) / float64(len(tokens))
	}
	spans := make([]TokenSpan, len(tokens))
	for i, token := range tokens {
		spans[i] = TokenSpan{
			Token:      token,
			Start:      last + float64(i)*step,
			End:        last + float64(i+1)*step,
			Confidence: Interpolated,
		}
	}
	if duration > last {
		spans[len(spans)-1].End = duration
	}
	return spans
}

func wordSpan(token lexical.Token, word RecognizedWord, confidence Confidence) TokenSpan {
	return TokenSpan{
		Token:      token,
		Start:      word.Start,
		End:        word.End,
		Confidence: confidence,
		Words:      1,
	}
}

// enforceMonotonic clamps each span to start no earlier than the previous end
// and to end no earlier than its own start.
func enforceMonotonic(spans []TokenSpan) {
	prevEnd := 0.0
	for i := range spans {
		spans[i].Start = max(spans[i].Start, prevEnd)
		spans[i].End = max(spans[i].End, spans[i].Start)
		prevEnd = spans[i].End
	}
}
