// Package lexical turns narration text into comparable word tokens.
//
// Each token keeps its raw display form, a folded comparison surface, and the
// phrase break signalled by its trailing punctuation. Original-text tokens are
// additionally classified as Plain or Expandable against an expansion table.
package lexical
