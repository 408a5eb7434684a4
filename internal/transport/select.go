package transport

import (
	"fmt"
	"os/exec"

	"github.com/terminal-use/sb0-install/internal/fault"
)

// LookPathFunc resolves an executable name to a path.
type LookPathFunc func(file string) (string, error)

// Options configures Select.
type Options struct {
	// Kind is one of KindAuto (default), KindCurl, KindWget or KindNative.
	Kind string
	// Token is sent as a bearer Authorization header when non-empty.
	Token string
	// LookPath defaults to exec.LookPath.
	LookPath LookPathFunc
	// Runner defaults to ExecRunner.
	Runner Runner
}

// Select returns the client named by opts.Kind. KindAuto probes for curl,
// then wget, and fails when neither is installed.
func Select(opts Options) (Client, error) {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	switch opts.Kind {
	case "", KindAuto:
		for _, name := range []string{KindCurl, KindWget} {
			if path, err := lookPath(name); err == nil {
				return NewCommandClient(name, path, opts.Token, opts.Runner)
			}
		}
		return nil, fault.New(fault.KindEnvironment, "select http client",
			"neither curl nor wget is installed; install one of them and retry")

	case KindCurl, KindWget:
		path, err := lookPath(opts.Kind)
		if err != nil {
			return nil, fault.Wrap(fault.KindEnvironment, "select http client",
				fmt.Sprintf("%s is not installed", opts.Kind), err)
		}
		return NewCommandClient(opts.Kind, path, opts.Token, opts.Runner)

	case KindNative:
		return NewNativeClient(opts.Token), nil

	default:
		return nil, fault.New(fault.KindUsage, "select http client",
			fmt.Sprintf("unknown http client: %s (supported: auto, curl, wget, native)", opts.Kind))
	}
}
