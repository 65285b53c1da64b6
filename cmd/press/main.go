// Command press builds, checks, serves and scaffolds a Markdown blog.
//
// Configuration is layered: built-in defaults, a press.yml file in the
// working directory (or --config), PRESS_ environment variables, then flags.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
