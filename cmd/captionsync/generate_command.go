package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"captionsync/internal/captions"
	"captionsync/internal/textutil"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var originalPath string
	var expandedPath string
	var audioPath string
	var title string
	var outputPath string
	var forceEstimate bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Transcribe narration audio and write synchronized captions",
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, err := filepath.Abs(strings.TrimSpace(audioPath))
			if err != nil {
				return fmt.Errorf("resolve --audio: %w", err)
			}
			info, err := os.Stat(audio)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("audio file %q not found", audio)
				}
				return fmt.Errorf("stat audio: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("audio path %q is a directory", audio)
			}
			original, err := readTextFile("original", originalPath)
			if err != nil {
				return err
			}
			expanded, err := readTextFile("expanded", expandedPath)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			output := strings.TrimSpace(outputPath)
			if output == "" {
				base := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
				output = filepath.Join(cfg.Paths.OutputDir, textutil.Slug(base, "captions")+".srt")
			}

			var opts []captions.ServiceOption
			if forceEstimate {
				opts = append(opts, captions.WithoutTranscriber())
			}
			svc, _, cleanup, err := ctx.captionService(cmd, opts...)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Generate(cmd.Context(), captions.GenerateRequest{
				JobID:         ctx.sessionID,
				Title:         title,
				Original:      original,
				Expanded:      expanded,
				AudioPath:     audio,
				OutputPath:    output,
				ForceEstimate: forceEstimate,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, newResultJSON(result, output))
			}
			out := cmd.OutOrStdout()
			printSummary(out, result, output, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&originalPath, "original", "", "Story text as displayed")
	cmd.Flags().StringVar(&expandedPath, "expanded", "", "Text the TTS engine spoke (default: expand --original)")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Narration audio file")
	cmd.Flags().StringVar(&title, "title", "", "Title narrated before the story")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "SRT destination (default: <output_dir>/<audio name>.srt)")
	cmd.Flags().BoolVar(&forceEstimate, "force-estimate", false, "Skip the recognizer and time captions from text length")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("original")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}
