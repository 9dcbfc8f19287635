// pattern: Functional Core
package cli

import (
	"fmt"
	"io"
)

// Command represents a single CLI command with its metadata and handler.
// Run returns the process exit code.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) int
}

// App represents the top-level CLI application.
type App struct {
	commands map[string]*Command
	order    []string
	version  string
	stdout   io.Writer
	stderr   io.Writer
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string, stdout, stderr io.Writer) *App {
	return &App{
		commands: make(map[string]*Command),
		version:  version,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// AddCommand registers a command. Help lists commands in registration order.
func (a *App) AddCommand(cmd *Command) {
	if _, ok := a.commands[cmd.Name]; !ok {
		a.order = append(a.order, cmd.Name)
	}
	a.commands[cmd.Name] = cmd
}

// Execute dispatches the CLI arguments to the appropriate command and
// returns the exit code.
func (a *App) Execute(args []string) int {
	if len(args) == 0 {
		a.PrintHelp(a.stderr)
		return 1
	}

	cmdName := args[0]
	switch cmdName {
	case "help", "--help", "-h":
		a.PrintHelp(a.stdout)
		return 0
	}

	cmd, ok := a.commands[cmdName]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", cmdName)
		a.PrintHelp(a.stderr)
		return 1
	}
	// Words after the command may be branch words, so "help" is not special
	// there; --help is handled by each command's flag set.
	return cmd.Run(args[1:])
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: gitclick [options] <command> [args]\n\n")
	fmt.Fprintf(w, "Keeps a git branch, its GitHub pull request and its ClickUp task in sync.\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, name := range a.order {
		cmd := a.commands[name]
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "\nUse \"gitclick <command> --help\" for command details.\n\n")
	fmt.Fprintf(w, "Options:\n")
}
