package shell

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

// CheckOptions describes the environment to check.
type CheckOptions struct {
	// Dir is the install directory.
	Dir string
	// Binary is the installed executable name, checked for shadowing.
	Binary string
	// PathValue is the PATH value to test.
	PathValue string
	// ShellEnv is the $SHELL value.
	ShellEnv string
	Home     string
}

// Check inspects PATH and the user's shell. It never fails: an unreadable rc
// file is treated as not configuring Dir.
func Check(ctx context.Context, opts CheckOptions) *Report {
	report := &Report{
		Dir:    opts.Dir,
		OnPath: OnPath(opts.Dir, opts.PathValue),
	}

	if report.OnPath {
		if opts.Binary != "" {
			report.Shadowed = FindShadowing(opts.Binary, filepath.Join(opts.Dir, opts.Binary), opts.PathValue)
		}
		return report
	}

	report.Shell = DetectShell(ctx, opts.ShellEnv).Shell
	report.Line = PathLine(report.Shell, opts.Dir)

	if opts.Home != "" {
		if rc, err := RCFilePath(report.Shell, opts.Home); err == nil {
			report.RCFile = rc
			report.ConfiguredInRC, _ = HasPathEntry(rc, opts.Dir)
		}
	}
	return report
}

// Write prints the guidance for r to w. Nothing is printed when Dir is on
// PATH and not shadowed.
func (r *Report) Write(w io.Writer) {
	if r.OnPath {
		if r.Shadowed != "" {
			fmt.Fprintf(w, "\nWarning: %s comes earlier on your PATH and will run instead of the installed binary in %s.\n",
				r.Shadowed, r.Dir)
		}
		return
	}

	fmt.Fprintf(w, "\n%s is not on your PATH.\n", r.Dir)

	if r.ConfiguredInRC {
		fmt.Fprintf(w, "%s already adds it; open a new shell or run: source %s\n", r.RCFile, r.RCFile)
		return
	}

	if r.RCFile != "" {
		fmt.Fprintf(w, "Add it by appending this line to %s:\n\n", r.RCFile)
	} else {
		fmt.Fprintf(w, "Add it by appending this line to your shell profile:\n\n")
	}
	fmt.Fprintf(w, "  %s\n\n", r.Line)

	if r.RCFile != "" {
		fmt.Fprintf(w, "Then open a new shell or run: source %s\n", r.RCFile)
	} else {
		fmt.Fprintf(w, "Then open a new shell.\n")
	}
}
