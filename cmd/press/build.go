package main

import (
	"fmt"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/site"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the site into the output directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule()
		if err != nil {
			return err
		}
		defer module.Close()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")
		sections, _ := cmd.Flags().GetStringSlice("section")

		logger := commands.CommandLogger(module.Container().LoggerProvider(), "site.build")

		var result *site.BuildResult
		handler := commands.NewBuildSiteHandler(module.Site(), logger, func(r *site.BuildResult) {
			result = r
		})

		if err := handler.Execute(cmd.Context(), commands.BuildSiteCommand{
			DryRun:   dryRun,
			Force:    force,
			Sections: sections,
		}); err != nil {
			return err
		}

		printBuildResult(cmd, result)
		return nil
	},
}

func printBuildResult(cmd *cobra.Command, result *site.BuildResult) {
	if result == nil {
		return
	}
	out := cmd.OutOrStdout()
	if result.DryRun {
		fmt.Fprintln(out, "dry run, nothing written")
	}
	fmt.Fprintf(out, "posts: %d\n", result.Posts)
	fmt.Fprintf(out, "pages: %d built, %d skipped\n", result.PagesBuilt, result.PagesSkipped)
	fmt.Fprintf(out, "assets: %d built, %d skipped\n", result.AssetsBuilt, result.AssetsSkipped)
	fmt.Fprintf(out, "duration: %s\n", result.Duration)
}

func init() {
	buildCmd.Flags().Bool("dry-run", false, "render everything but write nothing")
	buildCmd.Flags().Bool("force", false, "rebuild pages even when unchanged")
	buildCmd.Flags().Bool("drafts", false, "include draft posts")
	buildCmd.Flags().StringSlice("section", nil, "restrict the build to the named sections")

	if err := viper.BindPFlag("content.include_drafts", buildCmd.Flags().Lookup("drafts")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(buildCmd)
}
