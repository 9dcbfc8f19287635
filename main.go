// pattern: Imperative Shell
package main

import (
	"os"

	flag "github.com/spf13/pflag"

	"gitclick/internal/cli"
)

var version = "dev"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/gitclick)")
	verbose := flag.BoolP("verbose", "v", false, "mirror debug logs to stderr")

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		app := cli.BuildApp(version, cli.Options{ConfigDir: *configDir})
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	app := cli.BuildApp(version, cli.Options{
		ConfigDir: *configDir,
		Verbose:   *verbose,
	})
	os.Exit(app.Execute(flag.Args()))
}
