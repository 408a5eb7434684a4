package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// OnPath reports whether dir is one of the entries of pathValue. Entries are
// compared whole after cleaning, so "/opt/bin" does not match "/opt/bin2".
func OnPath(dir, pathValue string) bool {
	if dir == "" {
		return false
	}
	want := filepath.Clean(dir)
	for _, entry := range filepath.SplitList(pathValue) {
		if entry == "" {
			continue
		}
		if filepath.Clean(entry) == want {
			return true
		}
	}
	return false
}

// FindShadowing returns the first executable named name on pathValue that
// resolves to a different file than installed. It returns "" when installed
// wins the lookup or nothing else is found before it.
func FindShadowing(name, installed, pathValue string) string {
	installedReal := resolve(installed)
	for _, entry := range filepath.SplitList(pathValue) {
		if entry == "" {
			continue
		}
		candidate := filepath.Join(entry, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode().Perm()&0111 == 0 {
			continue
		}
		if resolve(candidate) == installedReal {
			return ""
		}
		return candidate
	}
	return ""
}

// resolve follows symlinks, falling back to the cleaned path.
func resolve(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// quoteDir quotes dir for inclusion in a POSIX shell double-quoted string.
func quoteDir(dir string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`")
	return r.Replace(dir)
}
