package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the transcript cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache(cmd)
			if err != nil {
				return err
			}
			defer cache.Close()

			stats, err := cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache:   %s\n", cache.Path())
			fmt.Fprintf(out, "Entries: %d (%s of transcripts)\n", stats.Entries, humanize.IBytes(uint64(max(stats.TotalBytes, 0))))
			if stats.Entries == 0 {
				return nil
			}

			entries, err := cache.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					shortDigest(entry.AudioSHA256),
					entry.Model,
					entry.Language,
					strconv.Itoa(entry.WordCount),
					(time.Duration(entry.DurationSeconds * float64(time.Second))).Round(time.Second).String(),
					humanize.Time(entry.CreatedAt),
					entry.AudioPath,
				})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				Headers: []string{"#", "Audio", "Model", "Lang", "Words", "Length", "Cached", "Source"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			}))
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove transcripts older than the cache max age",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := ctx.openCache(cmd)
			if err != nil {
				return err
			}
			defer cache.Close()

			if !cmd.Flags().Changed("older-than-days") {
				days = cfg.Cache.MaxAgeDays
			}
			if days <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache expiry disabled (cache.max_age_days = 0); nothing pruned")
				return nil
			}
			removed, err := cache.Prune(cmd.Context(), time.Duration(days)*24*time.Hour)
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cache entries pruned")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d %s older than %d days\n", removed, plural(removed, "transcript"), days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "older-than-days", 0, "Override cache.max_age_days")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache(cmd)
			if err != nil {
				return err
			}
			defer cache.Close()

			removed, err := cache.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached %s\n", removed, plural(removed, "transcript"))
			return nil
		},
	}
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

func plural(n int64, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
