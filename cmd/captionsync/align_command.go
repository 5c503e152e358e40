package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"captionsync/internal/captions"
	"captionsync/internal/services/whisperx"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var originalPath string
	var expandedPath string
	var wordsPath string
	var title string
	var duration float64
	var srtPath string
	var asJSON bool
	var showTable bool

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align story text against recorded WhisperX output",
		Long: `Align story text against an existing WhisperX JSON transcript without
running the recognizer. Captions are printed to stdout unless --srt is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 {
				return errors.New("--duration must be a positive number of seconds")
			}
			original, err := readTextFile("original", originalPath)
			if err != nil {
				return err
			}
			expanded, err := readTextFile("expanded", expandedPath)
			if err != nil {
				return err
			}
			segments, err := whisperx.LoadSegments(wordsPath)
			if err != nil {
				return fmt.Errorf("read --words: %w", err)
			}
			transcript := captions.TranscriptFromSegments(segments)

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, _, cleanup, err := ctx.captionService(cmd, captions.WithoutTranscriber())
			if err != nil {
				return err
			}
			defer cleanup()

			output := strings.TrimSpace(srtPath)
			toStdout := output == ""
			if toStdout {
				output = filepath.Join(cfg.Paths.WorkDir, "align-"+ctx.sessionID+".srt")
				defer os.Remove(output)
			}

			result, err := svc.Generate(cmd.Context(), captions.GenerateRequest{
				JobID:      ctx.sessionID,
				Title:      title,
				Original:   original,
				Expanded:   expanded,
				Duration:   duration,
				Transcript: &transcript,
				OutputPath: output,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				if toStdout {
					output = ""
				}
				return writeJSON(cmd, newResultJSON(result, output))
			case showTable:
				fmt.Fprintln(out, renderCueTable(result.Cues))
				if !toStdout {
					printSummary(out, result, output, shouldColorize(out))
				}
				return nil
			case toStdout:
				data, err := os.ReadFile(output)
				if err != nil {
					return fmt.Errorf("read captions: %w", err)
				}
				_, err = out.Write(data)
				return err
			default:
				printSummary(out, result, output, shouldColorize(out))
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&originalPath, "original", "", "Story text as displayed")
	cmd.Flags().StringVar(&expandedPath, "expanded", "", "Text the TTS engine spoke (default: expand --original)")
	cmd.Flags().StringVar(&wordsPath, "words", "", "WhisperX JSON with word timestamps")
	cmd.Flags().StringVar(&title, "title", "", "Title narrated before the story")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Audio duration in seconds")
	cmd.Flags().StringVar(&srtPath, "srt", "", "Write captions to this SRT file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print spans and cues as JSON")
	cmd.Flags().BoolVar(&showTable, "table", false, "Print cues as a table")
	_ = cmd.MarkFlagRequired("original")
	_ = cmd.MarkFlagRequired("words")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}
