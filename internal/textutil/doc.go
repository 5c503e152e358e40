// Package textutil provides the word-level text helpers shared by the
// normalizer, the expansion engine, and the aligner.
//
// The primary use cases are:
//   - Case folding and affix splitting so original, expanded, and recognized
//     words compare on the same footing
//   - Per-word edit-distance similarity for fuzzy recognizer matches
//   - Bag-of-words fingerprints for transcript-level agreement checks
//   - Cleaning scraped story text and sanitizing job file names
//
// Fingerprints use term frequency vectors normalized for efficient comparison.
// Tokenization folds case, splits on anything that is not a letter, digit, or
// apostrophe, and drops single-character tokens.
package textutil
