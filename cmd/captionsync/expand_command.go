package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"captionsync/internal/expansion"
	"captionsync/internal/lexical"
)

func newExpandCommand() *cobra.Command {
	var filePath string
	var showTokens bool

	cmd := &cobra.Command{
		Use:         "expand [text...]",
		Short:       "Print the text as the TTS engine will speak it",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if filePath != "" {
				data, err := readTextFile("file", filePath)
				if err != nil {
					return err
				}
				text = data
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("provide text as arguments or with --file")
			}

			table := expansion.Default()
			out := cmd.OutOrStdout()
			if !showTokens {
				fmt.Fprintln(out, expansion.ExpandText(text, table))
				return nil
			}

			tokens := lexical.Normalize(text, "", table).Original
			rows := make([][]string, 0, len(tokens))
			for _, token := range tokens {
				rows = append(rows, []string{
					strconv.Itoa(token.Position),
					token.Raw,
					token.Kind.String(),
					strings.Join(token.Expansion, " "),
					token.Break.String(),
				})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				Headers: []string{"#", "Token", "Kind", "Spoken", "Break"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignRight},
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Read text from a file")
	cmd.Flags().BoolVar(&showTokens, "tokens", false, "Show the token stream instead of the expanded text")
	return cmd
}
