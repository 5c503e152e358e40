// Package expansion holds the fixed mapping from contracted or abbreviated
// surface forms ("he's", "AITA", "17M") to the word sequence a speech
// synthesizer actually pronounces for them.
//
// The table is built once and shared read-only. Lookups are safe for
// concurrent use without locking. Beyond the static entries the table also
// recognizes two generated families: age/gender tags such as "25F" and plain
// integers, both spelled out as number words.
//
// ExpandText applies the same table to a whole story and produces the text
// handed to the synthesizer, so captions and narration always agree on what
// each token should sound like.
package expansion
