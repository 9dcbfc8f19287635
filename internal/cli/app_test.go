// pattern: Functional Core
package cli

import (
	"bytes"
	"strings"
	"testing"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewApp("1.0.0", &stdout, &stderr), &stdout, &stderr
}

func TestApp_PrintHelp_ListsCommandsInOrder(t *testing.T) {
	app, _, _ := newTestApp()
	app.AddCommand(&Command{Name: "sync", Summary: "Sync things"})
	app.AddCommand(&Command{Name: "info", Summary: "Show things"})

	buf := &bytes.Buffer{}
	app.PrintHelp(buf)

	output := buf.String()
	for _, want := range []string{"Usage: gitclick", "sync", "Sync things", "info", "Show things"} {
		if !strings.Contains(output, want) {
			t.Errorf("help missing %q:\n%s", want, output)
		}
	}
	if strings.Index(output, "  sync ") > strings.Index(output, "  info ") {
		t.Error("commands should be listed in registration order")
	}
}

func TestApp_Execute_NoArgs_PrintsHelpAndFails(t *testing.T) {
	app, stdout, stderr := newTestApp()

	if got := app.Execute(nil); got != 1 {
		t.Errorf("Execute(nil) = %d, want 1", got)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Usage: gitclick") {
		t.Errorf("stderr missing usage, got %q", stderr.String())
	}
}

func TestApp_Execute_Help(t *testing.T) {
	for _, arg := range []string{"help", "--help", "-h"} {
		t.Run(arg, func(t *testing.T) {
			app, stdout, _ := newTestApp()
			if got := app.Execute([]string{arg}); got != 0 {
				t.Errorf("Execute(%q) = %d, want 0", arg, got)
			}
			if !strings.Contains(stdout.String(), "Commands:") {
				t.Errorf("help not printed to stdout: %q", stdout.String())
			}
		})
	}
}

func TestApp_Execute_DispatchesWithRemainingArgs(t *testing.T) {
	app, _, _ := newTestApp()
	var gotArgs []string
	app.AddCommand(&Command{
		Name: "sync",
		Run: func(args []string) int {
			gotArgs = args
			return 3
		},
	})

	if got := app.Execute([]string{"sync", "help", "page"}); got != 3 {
		t.Errorf("Execute = %d, want the command's exit code 3", got)
	}
	if strings.Join(gotArgs, " ") != "help page" {
		t.Errorf("args: got %v, want [help page]", gotArgs)
	}
}

func TestApp_Execute_UnknownCommand(t *testing.T) {
	app, _, stderr := newTestApp()

	if got := app.Execute([]string{"frobnicate"}); got != 1 {
		t.Errorf("Execute = %d, want 1", got)
	}
	if !strings.Contains(stderr.String(), `unknown command "frobnicate"`) {
		t.Errorf("stderr: got %q", stderr.String())
	}
}

func TestApp_AddCommand_ReplacesWithoutDuplicatingHelp(t *testing.T) {
	app, _, _ := newTestApp()
	app.AddCommand(&Command{Name: "sync", Summary: "old"})
	app.AddCommand(&Command{Name: "sync", Summary: "new"})

	buf := &bytes.Buffer{}
	app.PrintHelp(buf)
	if strings.Count(buf.String(), "  sync ") != 1 || !strings.Contains(buf.String(), "new") {
		t.Errorf("help: got %q", buf.String())
	}
}
