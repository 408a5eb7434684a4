package shell

// ShellType represents a supported shell
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellUnknown represents an unknown or unsupported shell
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	Shell ShellType
	// Method describes how the shell was detected
	Method string
	// ShellPath is the filesystem path or process name of the shell
	ShellPath string
}

// Report is the outcome of a PATH check.
type Report struct {
	// Dir is the install directory that was checked.
	Dir    string
	OnPath bool
	Shell  ShellType
	// RCFile is the rc file to edit; empty for unknown shells.
	RCFile string
	// Line is the line that puts Dir on PATH for Shell.
	Line string
	// ConfiguredInRC is set when RCFile already mentions Dir, meaning a new
	// shell session will pick it up.
	ConfiguredInRC bool
	// Shadowed is the path of another executable with the same name found
	// earlier on PATH, if any.
	Shadowed string
}
