package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// DetectShell detects the user's shell from the $SHELL value, falling back to
// the name of the parent process.
func DetectShell(ctx context.Context, shellEnv string) *DetectionResult {
	if shellEnv != "" {
		if shellType := parseShellFromPath(shellEnv); shellType.IsValid() {
			return &DetectionResult{
				Shell:     shellType,
				Method:    "$SHELL environment variable",
				ShellPath: shellEnv,
			}
		}
	}

	if shellType, name := detectFromParentProcess(ctx); shellType.IsValid() {
		return &DetectionResult{
			Shell:     shellType,
			Method:    "parent process",
			ShellPath: name,
		}
	}

	return &DetectionResult{
		Shell:     ShellUnknown,
		Method:    "detection failed",
		ShellPath: shellEnv,
	}
}

// parseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - -zsh (login shell) -> zsh
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(shellPath))
	baseName = strings.TrimPrefix(baseName, "-")

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}

// detectFromParentProcess names the process that started the installer.
// It is the user's shell when the installer runs directly from a terminal.
func detectFromParentProcess(ctx context.Context) (ShellType, string) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getppid()))
	if err != nil {
		return ShellUnknown, ""
	}
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return ShellUnknown, ""
	}
	return parseShellFromPath(name), name
}
