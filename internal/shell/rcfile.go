package shell

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s (supported: bash, zsh, fish)", e.Shell)
}

// RCFilePath returns the rc file of shell under home.
func RCFilePath(shell ShellType, home string) (string, error) {
	switch shell {
	case ShellBash:
		return filepath.Join(home, ".bashrc"), nil
	case ShellZsh:
		return filepath.Join(home, ".zshrc"), nil
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "config.fish"), nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// PathLine returns the rc file line that prepends dir to PATH in shell.
// Unknown shells get the POSIX export line.
func PathLine(shell ShellType, dir string) string {
	if shell == ShellFish {
		return fmt.Sprintf("fish_add_path %s", fishQuote(dir))
	}
	return fmt.Sprintf(`export PATH="%s:$PATH"`, quoteDir(dir))
}

func fishQuote(dir string) string {
	if strings.ContainsAny(dir, " \t'\"$\\") {
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(dir) + "'"
	}
	return dir
}

// HasPathEntry reports whether a non-comment line of rcPath mentions dir in
// a PATH assignment or fish_add_path call. A missing file reports false.
func HasPathEntry(rcPath, dir string) (bool, error) {
	file, err := os.Open(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("open rc file %s: %w", rcPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "PATH") && !strings.Contains(line, "fish_add_path") {
			continue
		}
		if strings.Contains(line, dir) {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("read rc file %s: %w", rcPath, err)
	}
	return false, nil
}
