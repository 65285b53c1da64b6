package main

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	initConfig()

	cfg := loadConfig()
	if cfg.Content.Dir != "content" {
		t.Fatalf("content dir = %q", cfg.Content.Dir)
	}
	if cfg.Output.Dir != "public" {
		t.Fatalf("output dir = %q", cfg.Output.Dir)
	}
	if cfg.Server.Port != 1414 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PRESS_SITE_TITLE", "From Env")
	t.Setenv("PRESS_OUTPUT_DIR", "dist")
	t.Setenv("PRESS_SERVER_PORT", "9000")

	initConfig()

	cfg := loadConfig()
	if cfg.Site.Title != "From Env" {
		t.Fatalf("title = %q", cfg.Site.Title)
	}
	if cfg.Output.Dir != "dist" {
		t.Fatalf("output dir = %q", cfg.Output.Dir)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
}

func TestCommandsRegistered(t *testing.T) {
	wanted := map[string]bool{"build": false, "serve": false, "check": false, "clean": false, "new": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := wanted[cmd.Name()]; ok {
			wanted[cmd.Name()] = true
		}
	}
	for name, found := range wanted {
		if !found {
			t.Fatalf("command %q not registered", name)
		}
	}
}
