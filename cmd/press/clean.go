package main

import (
	"fmt"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the output directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule()
		if err != nil {
			return err
		}
		defer module.Close()

		logger := commands.CommandLogger(module.Container().LoggerProvider(), "site.clean")
		handler := commands.NewCleanSiteHandler(module.Site(), logger)

		if err := handler.Execute(cmd.Context(), commands.CleanSiteCommand{}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", module.Config().Output.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
