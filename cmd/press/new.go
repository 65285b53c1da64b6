package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a Markdown post",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Content.Dir
		}
		tags, _ := cmd.Flags().GetStringSlice("tag")
		summary, _ := cmd.Flags().GetString("summary")
		draft, _ := cmd.Flags().GetBool("draft")

		var created string
		handler := commands.NewScaffoldPostHandler(nil, func(path string) {
			created = path
		})

		if err := handler.Execute(cmd.Context(), commands.ScaffoldPostCommand{
			Title:   strings.Join(args, " "),
			Dir:     dir,
			Summary: summary,
			Tags:    tags,
			Draft:   draft,
		}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", created)
		return nil
	},
}

func init() {
	newCmd.Flags().String("dir", "", "target directory (default the content directory)")
	newCmd.Flags().StringSlice("tag", nil, "tags applied to the new post")
	newCmd.Flags().String("summary", "", "summary stored in the front matter")
	newCmd.Flags().Bool("draft", false, "mark the post as a draft")
	rootCmd.AddCommand(newCmd)
}
