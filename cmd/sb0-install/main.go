// sb0-install installs the sb0 CLI and its runtime assets from a GitHub
// release.
//
// Usage:
//
//	sb0-install [-v|--version VERSION] [-h|--help]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/terminal-use/sb0-install/internal/fault"
	"github.com/terminal-use/sb0-install/internal/platform"
	"github.com/terminal-use/sb0-install/internal/transport"
)

// environment is everything the installer reads from the process.
type environment struct {
	getenv   func(string) string
	stdout   io.Writer
	stderr   io.Writer
	goos     string
	detector platform.Detector
	lookPath transport.LookPathFunc
	runner   transport.Runner
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	env := &environment{
		getenv:   os.Getenv,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		goos:     runtime.GOOS,
		detector: platform.NewDetector(),
	}
	code := run(ctx, os.Args[1:], env)
	stop()
	os.Exit(code)
}

// run parses args, runs the installer and returns the exit status.
func run(ctx context.Context, args []string, env *environment) int {
	opts, err := parseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		printUsage(env.stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(env.stderr, "Error: %v\n\n", err)
		printUsage(env.stderr)
		return 1
	}

	if err := install(ctx, opts, env); err != nil {
		fmt.Fprintf(env.stderr, "Error: %v\n", err)
		if hint := fault.HintOf(err); hint != "" {
			fmt.Fprintf(env.stderr, "Hint: %s\n", hint)
		}
		return 1
	}
	return 0
}

// options holds the parsed command line.
type options struct {
	version string
}

// parseArgs parses the command line. -h/--help is deliberately not
// registered so pflag stops at it and returns pflag.ErrHelp, ignoring any
// later arguments. Parsing also stops at the first positional argument,
// which is then reported even when a help flag follows it.
func parseArgs(args []string) (*options, error) {
	opts := &options{}

	flagSet := pflag.NewFlagSet("sb0-install", pflag.ContinueOnError)
	flagSet.Usage = func() {}
	flagSet.SetOutput(io.Discard)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&opts.version, "version", "v", "", "release to install, e.g. v1.2.3 (default: latest)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fault.Wrap(fault.KindUsage, "", "invalid arguments", err)
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fault.New(fault.KindUsage, "", fmt.Sprintf("unrecognized option: %s", rest[0]))
	}
	if flagSet.Changed("version") && opts.version == "" {
		return nil, fault.New(fault.KindUsage, "", "missing value for --version")
	}
	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `sb0-install - install the sb0 CLI, wheels and templates

USAGE
    sb0-install [-v|--version VERSION] [-h|--help]

OPTIONS
    -v, --version VERSION   Release to install, e.g. v1.2.3 or 1.2.3 (default: latest)
    -h, --help              Show this help

ENVIRONMENT
    GITHUB_REPO          Repository to install from (default: terminal-use/sb0-cli)
    GITHUB_TOKEN         Token for private repositories
    INSTALL_DIR          Binary directory (default: ~/.local/bin)
    SB0_VERSION          Same as --version
    SB0_DATA_DIR         Data directory for wheels, templates and the version marker
    SB0_WHEELS_DIR       Wheels directory (default: $SB0_DATA_DIR/wheels)
    SB0_TEMPLATE_DIR     Templates directory (default: $SB0_DATA_DIR/templates)
    SB0_HTTP_CLIENT      auto, curl, wget or native (default: auto)
    SB0_VERIFY           none, checksum, gpg or minisign (default: none)
    SB0_VERIFY_KEY       Public key for gpg or minisign verification
    SB0_API_URL          GitHub API base URL
    SB0_DOWNLOAD_URL     Release download base URL
    SB0_INSTALL_CONFIG   Lua config file
    SB0_DEBUG            Enable debug logging
`)
}
