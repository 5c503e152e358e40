// Package main hosts the captionsync CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the slog logger
// for the session, and hands each subcommand a caption service wired with the
// transcript cache and metrics. Commands stay thin: alignment, grouping and
// batch orchestration live in internal/captions and below.
package main
