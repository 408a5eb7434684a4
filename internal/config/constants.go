package config

// Lua schema field names and globals
const (
	luaGlobalSB0        = "sb0"
	luaFieldRepo        = "repo"
	luaFieldInstallDir  = "install_dir"
	luaFieldDataDir     = "data_dir"
	luaFieldWheelsDir   = "wheels_dir"
	luaFieldTemplates   = "templates_dir"
	luaFieldVersion     = "version"
	luaFieldHTTPClient  = "http_client"
	luaFieldAPIURL      = "api_url"
	luaFieldDownloadURL = "download_url"
	luaFieldVerify      = "verify"
	luaFieldVerifyMode  = "mode"
	luaFieldVerifyKey   = "key"
)

// Environment variables read by Load.
const (
	EnvRepo         = "GITHUB_REPO"
	EnvInstallDir   = "INSTALL_DIR"
	EnvToken        = "GITHUB_TOKEN"
	EnvVersion      = "SB0_VERSION"
	EnvDataDir      = "SB0_DATA_DIR"
	EnvWheelsDir    = "SB0_WHEELS_DIR"
	EnvTemplatesDir = "SB0_TEMPLATE_DIR"
	EnvHTTPClient   = "SB0_HTTP_CLIENT"
	EnvVerify       = "SB0_VERIFY"
	EnvVerifyKey    = "SB0_VERIFY_KEY"
	EnvAPIURL       = "SB0_API_URL"
	EnvDownloadURL  = "SB0_DOWNLOAD_URL"
	EnvDebug        = "SB0_DEBUG"
	EnvConfigFile   = "SB0_INSTALL_CONFIG"
	EnvHome         = "HOME"
	EnvXDGDataHome  = "XDG_DATA_HOME"
)

// Defaults
const (
	DefaultRepo = "terminal-use/sb0-cli"

	// MaxConfigSize bounds the Lua file read by ParseFile.
	MaxConfigSize = 1 << 20
)
