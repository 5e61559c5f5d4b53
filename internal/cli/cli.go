// Package cli is the terminal front end. Every command belongs to a page
// route and runs only when the navigation guard lets that page open.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/common-nighthawk/go-figure"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/navigation"
	"hotelguru/internal/resource"
	"hotelguru/internal/session"
)

// Exit codes
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitLoginNeeded  = 3
	ExitAccessDenied = 4
)

// Version is stamped at build time
var Version = "dev"

// App runs one command against the shared client components
type App struct {
	Name   string
	Store  *session.Store
	Router *navigation.Router
	API    *resource.Services
	Stdout io.Writer
	Stderr io.Writer
}

type runFunc func(ctx context.Context, a *App) error

type command struct {
	name  string
	route string
	help  string
	setup func(fs *flag.FlagSet) runFunc
}

type usageError string

func (e usageError) Error() string { return string(e) }

// Run executes args[0] with the remaining flags and returns the exit code
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage(a.Stdout)
		if len(args) == 0 {
			return ExitUsage
		}
		return ExitOK
	}
	if args[0] == "version" {
		figure.Write(a.Stdout, figure.NewFigure(a.Name, "", true))
		fmt.Fprintf(a.Stdout, "%s %s\n", a.Name, Version)
		return ExitOK
	}

	cmd, ok := commands()[args[0]]
	if !ok {
		fmt.Fprintf(a.Stderr, "unknown command %q\n\n", args[0])
		a.usage(a.Stderr)
		return ExitUsage
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	run := cmd.setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	if code, ok := a.guard(ctx, cmd); !ok {
		return code
	}

	if err := run(ctx, a); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(a.Stderr, "%s: %s\n", cmd.name, ue)
			fs.Usage()
			return ExitUsage
		}
		a.printError(err)
		return ExitFailure
	}
	return ExitOK
}

// guard opens the command's page. A redirect means the command may not run.
func (a *App) guard(ctx context.Context, cmd command) (int, bool) {
	got, err := a.Router.Push(ctx, navigation.Location{Name: cmd.route})
	if err != nil {
		fmt.Fprintf(a.Stderr, "navigation failed: %v\n", err)
		return ExitFailure, false
	}

	switch got.Name {
	case cmd.route:
		return ExitOK, true
	case navigation.RouteLogin:
		fmt.Fprintf(a.Stderr, "login required: run `%s login` first", strings.ToLower(a.Name))
		if target := got.Query.Get("redirect"); target != "" {
			fmt.Fprintf(a.Stderr, ", then you will continue at %s", target)
		}
		fmt.Fprintln(a.Stderr)
		return ExitLoginNeeded, false
	case navigation.RouteAccessDenied:
		fmt.Fprintf(a.Stderr, "access denied: %s requires one of %v\n", cmd.name, cmd.roles(a.Router))
		return ExitAccessDenied, false
	default:
		fmt.Fprintf(a.Stderr, "redirected to %s\n", got.FullPath())
		return ExitFailure, false
	}
}

func (c command) roles(r *navigation.Router) []string {
	to, err := r.Resolve(navigation.Location{Name: c.route})
	if err != nil {
		return nil
	}
	return to.RequiredRoles()
}

func (a *App) usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s <command> [flags]\n\ncommands:\n", strings.ToLower(a.Name))
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for n := range cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-18s %s\n", n, cmds[n].help)
	}
	fmt.Fprintf(w, "  %-18s %s\n", "version", "print the version")
}

// printJSON writes v as indented JSON
func (a *App) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Stdout, string(data))
	return err
}

// printBody writes a backend answer as indented JSON
func (a *App) printBody(resp *apiclient.Response) error {
	if len(resp.Body) == 0 {
		return a.printJSON(map[string]int{"status": resp.StatusCode})
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body, "", "  "); err != nil {
		_, err = a.Stdout.Write(resp.Body)
		return err
	}
	_, err := fmt.Fprintln(a.Stdout, buf.String())
	return err
}

func (a *App) printError(err error) {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		msg := apiErr.FormatFieldErrors()
		if msg == "" {
			msg = apiErr.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", apiErr.StatusCode)
		}
		fmt.Fprintf(a.Stderr, "error: %s\n", msg)
		return
	}
	fmt.Fprintf(a.Stderr, "error: %v\n", err)
}

func commands() map[string]command {
	list := []command{
		loginCmd(), logoutCmd(), registerCmd(), whoamiCmd(),
		profileCmd(), profileUpdateCmd(),
		roomsCmd(), roomCmd(), servicesCmd(),
		reservationsCmd(), reserveCmd(), cancelCmd(), addServicesCmd(),
		adminRoomsCmd(), adminRoomCreateCmd(), adminRoomUpdateCmd(), adminRoomDeleteCmd(),
	}
	m := make(map[string]command, len(list))
	for _, c := range list {
		m[c.name] = c
	}
	return m
}
