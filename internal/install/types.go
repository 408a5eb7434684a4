package install

import (
	"time"
)

// BinaryName is the installed executable name.
const BinaryName = "sb0"

// MarkerFile is the assets-version marker written to the data directory.
const MarkerFile = "assets-version"

// AssetKind identifies one of the three release assets.
type AssetKind int

const (
	// AssetBinary is the platform-specific sb0 executable.
	AssetBinary AssetKind = iota
	// AssetWheels is the wheels archive.
	AssetWheels
	// AssetTemplates is the templates archive.
	AssetTemplates
)

// String returns the string representation of the asset kind
func (k AssetKind) String() string {
	switch k {
	case AssetBinary:
		return "binary"
	case AssetWheels:
		return "wheels"
	case AssetTemplates:
		return "templates"
	default:
		return "unknown"
	}
}

// Asset is a downloadable release artifact.
type Asset struct {
	Kind     AssetKind
	Filename string // e.g. "sb0-linux-x64", "sb0-wheels-1.2.3.tar.gz"
	URL      string
}

// Result describes a completed install.
type Result struct {
	Tag          string // "v1.2.3"
	Version      string // "1.2.3"
	Platform     string // "linux-x64"
	BinaryPath   string
	WheelsDir    string // versioned wheels directory
	TemplatesDir string // versioned templates directory
	MarkerPath   string
	Duration     time.Duration
}

// Logger receives structured diagnostic messages. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...any) {}
func (noopLogger) Info(msg string, keysAndValues ...any)  {}
func (noopLogger) Warn(msg string, keysAndValues ...any)  {}
func (noopLogger) Error(msg string, keysAndValues ...any) {}
