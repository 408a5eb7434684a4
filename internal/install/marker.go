package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadMarker returns the version recorded in dataDir's assets-version
// marker, or "" when no marker exists.
func ReadMarker(dataDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, MarkerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read marker: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteMarker replaces dataDir's assets-version marker with version, with no
// trailing newline. The write goes to a temporary file that is renamed into
// place, so readers never observe a partial marker.
func WriteMarker(dataDir, version string) (string, error) {
	markerPath := filepath.Join(dataDir, MarkerFile)

	tmpFile, err := os.CreateTemp(dataDir, "."+MarkerFile+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp marker: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.WriteString(version); err != nil {
		return "", fmt.Errorf("write marker: %w", err)
	}
	if err := tmpFile.Chmod(0644); err != nil {
		return "", fmt.Errorf("chmod marker: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close marker: %w", err)
	}
	if err := os.Rename(tmpPath, markerPath); err != nil {
		return "", fmt.Errorf("rename marker: %w", err)
	}

	cleanupNeeded = false
	return markerPath, nil
}
