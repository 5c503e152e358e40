// Package preflight provides readiness checks for the binaries and
// filesystem paths that captionsync depends on.
//
// These checks run in two contexts:
//   - Batch runs call RunAll before dispatching jobs so a missing output
//     directory fails once instead of once per story.
//   - The CLI "captionsync check" command renders every result, including
//     the dependency table from CheckSystemDeps.
//
// Checks tied to optional features are skipped when the feature is disabled.
package preflight
