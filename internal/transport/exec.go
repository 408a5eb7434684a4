package transport

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/terminal-use/sb0-install/internal/fault"
)

const maxCommandError = 2048

// Runner executes name with args and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. A non-zero exit becomes an error
// carrying the trimmed standard error output.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, trimCommandOutput(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func trimCommandOutput(out string) string {
	clean := strings.TrimSpace(out)
	if clean == "" {
		return "command failed"
	}
	if len(clean) > maxCommandError {
		return clean[:maxCommandError] + "..."
	}
	return clean
}

// CommandClient drives curl or wget.
type CommandClient struct {
	name     string
	path     string
	authArgs []string
	run      Runner
}

// NewCommandClient returns a client running the tool at path. name must be
// KindCurl or KindWget.
func NewCommandClient(name, path, token string, run Runner) (*CommandClient, error) {
	if name != KindCurl && name != KindWget {
		return nil, fmt.Errorf("unsupported command client: %s", name)
	}
	if run == nil {
		run = ExecRunner
	}
	return &CommandClient{
		name:     name,
		path:     path,
		authArgs: AuthArgs(name, token),
		run:      run,
	}, nil
}

// Name returns the tool name.
func (c *CommandClient) Name() string {
	return c.name
}

// Fetch runs the tool with output to stdout.
func (c *CommandClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	out, err := c.run(ctx, c.path, c.fetchArgs(url)...)
	if err != nil {
		return nil, fault.Wrap(fault.KindNetwork, "fetch", url, err)
	}
	return out, nil
}

// Download runs the tool with output to destPath.
func (c *CommandClient) Download(ctx context.Context, url, destPath string) error {
	if _, err := c.run(ctx, c.path, c.downloadArgs(url, destPath)...); err != nil {
		return fault.Wrap(fault.KindNetwork, "download", url, err)
	}
	return nil
}

func (c *CommandClient) fetchArgs(url string) []string {
	var args []string
	switch c.name {
	case KindCurl:
		args = append(args, "-fsSL")
	case KindWget:
		args = append(args, "-qO-")
	}
	args = append(args, c.authArgs...)
	return append(args, url)
}

func (c *CommandClient) downloadArgs(url, destPath string) []string {
	var args []string
	switch c.name {
	case KindCurl:
		args = append(args, "-fsSL")
		args = append(args, c.authArgs...)
		args = append(args, "-o", destPath)
	case KindWget:
		args = append(args, "-q")
		args = append(args, c.authArgs...)
		args = append(args, "-O", destPath)
	}
	return append(args, url)
}
