package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally with live reload",
	RunE: func(cmd *cobra.Command, _ []string) error {
		module, err := newModule()
		if err != nil {
			return err
		}
		defer module.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := module.Config()
		fmt.Fprintf(cmd.OutOrStdout(), "serving %s on http://%s:%d\n", cfg.Output.Dir, cfg.Server.Host, cfg.Server.Port)

		return module.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on")
	serveCmd.Flags().String("host", "", "host to bind")
	serveCmd.Flags().Bool("watch", true, "rebuild on source changes")

	if err := viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("server.watch", serveCmd.Flags().Lookup("watch")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}
