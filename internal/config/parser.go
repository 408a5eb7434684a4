package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/terminal-use/sb0-install/internal/platform"
)

// DefaultParseTimeout applies when ctx carries no deadline.
const DefaultParseTimeout = 5 * time.Second

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform global undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: defaultLogger()}
}

// WithLogger returns the parser with logger attached.
func (p *Parser) WithLogger(logger Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// ParseFile reads and parses the Lua config file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxConfigSize),
		}
	}

	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*File, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	for _, finding := range DetectSensitiveData(luaCode) {
		p.logger.Warn("config file appears to contain a credential; it is ignored, use "+EnvToken+" instead",
			"pattern", finding.PatternName, "line", finding.Line, "preview", finding.Preview)
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Message: "config evaluation timed out", Detail: ctxErr.Error()}
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractFile(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractFile reads the global sb0 table.
func extractFile(L *lua.LState) (*File, error) {
	root := L.GetGlobal(luaGlobalSB0)
	table, ok := root.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid '" + luaGlobalSB0 + "' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	file := &File{}
	fields := []struct {
		name string
		dst  *string
	}{
		{luaFieldRepo, &file.Repo},
		{luaFieldInstallDir, &file.InstallDir},
		{luaFieldDataDir, &file.DataDir},
		{luaFieldWheelsDir, &file.WheelsDir},
		{luaFieldTemplates, &file.TemplatesDir},
		{luaFieldVersion, &file.Version},
		{luaFieldHTTPClient, &file.HTTPClient},
		{luaFieldAPIURL, &file.APIURL},
		{luaFieldDownloadURL, &file.DownloadURL},
	}
	for _, f := range fields {
		v, err := stringField(table, f.name, luaGlobalSB0)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	switch verify := table.RawGetString(luaFieldVerify).(type) {
	case *lua.LNilType:
	case *lua.LTable:
		var err error
		if file.VerifyMode, err = stringField(verify, luaFieldVerifyMode, luaGlobalSB0+"."+luaFieldVerify); err != nil {
			return nil, err
		}
		if file.VerifyKey, err = stringField(verify, luaFieldVerifyKey, luaGlobalSB0+"."+luaFieldVerify); err != nil {
			return nil, err
		}
	default:
		return nil, &ParseError{
			Message: "invalid field " + luaGlobalSB0 + "." + luaFieldVerify,
			Detail:  fmt.Sprintf("expected table, got %s", verify.Type()),
		}
	}

	return file, nil
}

// stringField returns table[name] as a string; nil yields "".
func stringField(table *lua.LTable, name, owner string) (string, error) {
	switch v := table.RawGetString(name).(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	default:
		return "", &ParseError{
			Message: "invalid field " + owner + "." + name,
			Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
		}
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
