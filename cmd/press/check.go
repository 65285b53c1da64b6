package main

import (
	"fmt"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/content"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate content without writing output",
	Long: `check loads every post, validates metadata, cross-references and
fenced code blocks, and reports each problem with the file that caused it.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule()
		if err != nil {
			return err
		}
		defer module.Close()

		logger := commands.CommandLogger(module.Container().LoggerProvider(), "content.check")

		var corpus *content.Corpus
		handler := commands.NewCheckContentHandler(module.Content(), logger, func(c *content.Corpus) {
			corpus = c
		})

		if err := handler.Execute(cmd.Context(), commands.CheckContentCommand{}); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ok: %d posts", len(corpus.Posts))
		if tags := corpus.Tags(); len(tags) > 0 {
			fmt.Fprintf(out, ", %d tags", len(tags))
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
