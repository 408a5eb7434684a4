package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/terminal-use/sb0-install/internal/fault"
	"github.com/terminal-use/sb0-install/internal/release"
	"github.com/terminal-use/sb0-install/internal/transport"
)

// Config holds configuration for the installer
type Config struct {
	Client    transport.Client
	Extractor Extractor
	// Verifier is optional; nil installs without verification.
	Verifier *Verifier

	// DownloadBase defaults to DefaultDownloadBase.
	DownloadBase string
	Repo         string
	// Tag is the normalized release tag, e.g. "v1.2.3".
	Tag string
	// Platform is the platform tag, e.g. "linux-x64".
	Platform string

	InstallDir   string
	DataDir      string
	WheelsDir    string
	TemplatesDir string
	// TempRoot is where per-asset temporary directories are created.
	// Defaults to os.TempDir().
	TempRoot string

	// Authenticated records whether a token is configured; network failures
	// carry the private-repository hint when it is false.
	Authenticated bool

	// Output receives progress lines; nil discards them.
	Output io.Writer
	Logger Logger
}

// Installer orchestrates download, verification and installation of the
// release assets.
type Installer struct {
	cfg     Config
	version string
	assets  []Asset
	out     io.Writer
	log     Logger
}

// NewInstaller validates cfg and creates an installer.
func NewInstaller(cfg Config) (*Installer, error) {
	switch {
	case cfg.Client == nil:
		return nil, fmt.Errorf("Client is required")
	case cfg.Extractor == nil:
		return nil, fmt.Errorf("Extractor is required")
	case cfg.Repo == "":
		return nil, fmt.Errorf("Repo is required")
	case cfg.Platform == "":
		return nil, fmt.Errorf("Platform is required")
	case cfg.InstallDir == "":
		return nil, fmt.Errorf("InstallDir is required")
	case cfg.DataDir == "":
		return nil, fmt.Errorf("DataDir is required")
	case cfg.WheelsDir == "":
		return nil, fmt.Errorf("WheelsDir is required")
	case cfg.TemplatesDir == "":
		return nil, fmt.Errorf("TemplatesDir is required")
	}
	if err := release.Validate(cfg.Tag); err != nil {
		return nil, err
	}

	if cfg.TempRoot == "" {
		cfg.TempRoot = os.TempDir()
	}

	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	var log Logger = noopLogger{}
	if cfg.Logger != nil {
		log = cfg.Logger
	}

	return &Installer{
		cfg:     cfg,
		version: release.Plain(cfg.Tag),
		assets:  releaseAssets(cfg.DownloadBase, cfg.Repo, cfg.Tag, cfg.Platform),
		out:     out,
		log:     log,
	}, nil
}

// Assets returns the release assets in install order.
func (i *Installer) Assets() []Asset {
	return append([]Asset(nil), i.assets...)
}

// BinaryPath returns the path the binary is installed to.
func (i *Installer) BinaryPath() string {
	return filepath.Join(i.cfg.InstallDir, BinaryName)
}

// VersionedDir returns the versioned target directory of an archive asset.
func (i *Installer) VersionedDir(kind AssetKind) string {
	switch kind {
	case AssetWheels:
		return filepath.Join(i.cfg.WheelsDir, i.version)
	case AssetTemplates:
		return filepath.Join(i.cfg.TemplatesDir, i.version)
	default:
		return ""
	}
}

// Run installs the binary, then the wheels and templates archives, then
// writes the marker. It stops at the first failure; assets installed before
// the failure stay in place.
func (i *Installer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := os.MkdirAll(i.cfg.DataDir, 0755); err != nil {
		return nil, fault.Wrap(fault.KindFilesystem, "install", "create data directory", err)
	}

	for _, asset := range i.assets {
		if err := i.InstallAsset(ctx, asset); err != nil {
			return nil, fmt.Errorf("install %s: %w", asset.Kind, err)
		}
	}

	markerPath, err := WriteMarker(i.cfg.DataDir, i.version)
	if err != nil {
		return nil, fault.Wrap(fault.KindFilesystem, "install", "write assets-version marker", err)
	}
	i.log.Debug("wrote marker", "path", markerPath, "version", i.version)

	return &Result{
		Tag:          i.cfg.Tag,
		Version:      i.version,
		Platform:     i.cfg.Platform,
		BinaryPath:   i.BinaryPath(),
		WheelsDir:    i.VersionedDir(AssetWheels),
		TemplatesDir: i.VersionedDir(AssetTemplates),
		MarkerPath:   markerPath,
		Duration:     time.Since(start),
	}, nil
}

// InstallAsset runs the download/verify/install protocol for one asset
// inside a fresh temporary directory that is removed before returning.
func (i *Installer) InstallAsset(ctx context.Context, asset Asset) error {
	tmpDir, err := os.MkdirTemp(i.cfg.TempRoot, "sb0-install-*")
	if err != nil {
		return fault.Wrap(fault.KindFilesystem, "install", "create temporary directory", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			i.log.Warn("failed to remove temporary directory", "path", tmpDir, "error", err)
		}
	}()

	fmt.Fprintf(i.out, "Downloading %s...\n", asset.Filename)
	i.log.Debug("downloading asset", "kind", asset.Kind.String(), "url", asset.URL, "tmp", tmpDir)

	downloaded := filepath.Join(tmpDir, asset.Filename)
	if err := i.download(ctx, asset.URL, downloaded, asset.Filename); err != nil {
		return err
	}

	if err := i.verify(ctx, asset, downloaded, tmpDir); err != nil {
		return err
	}

	switch asset.Kind {
	case AssetBinary:
		return i.placeBinary(downloaded)
	default:
		return i.extractArchive(ctx, asset, downloaded)
	}
}

func (i *Installer) download(ctx context.Context, url, dest, name string) error {
	if err := i.cfg.Client.Download(ctx, url, dest); err != nil {
		return i.networkFault(fmt.Sprintf("failed to download %s", name), err)
	}
	return nil
}

func (i *Installer) verify(ctx context.Context, asset Asset, assetPath, tmpDir string) error {
	if !i.cfg.Verifier.Enabled() {
		return nil
	}

	sidecar := i.cfg.Verifier.SidecarName(asset.Filename)
	sidecarPath := filepath.Join(tmpDir, sidecar)
	sidecarURL := ReleaseURL(i.cfg.DownloadBase, i.cfg.Repo, i.cfg.Tag, sidecar)
	if err := i.download(ctx, sidecarURL, sidecarPath, sidecar); err != nil {
		return err
	}

	if err := i.cfg.Verifier.Verify(assetPath, sidecarPath); err != nil {
		return fault.Wrap(fault.KindVerification, "verify",
			fmt.Sprintf("%s failed %s verification", asset.Filename, i.cfg.Verifier.Mode()), err)
	}
	i.log.Debug("verified asset", "file", asset.Filename, "mode", string(i.cfg.Verifier.Mode()))
	return nil
}

// placeBinary moves the downloaded binary into the install directory and
// marks it executable.
func (i *Installer) placeBinary(downloaded string) error {
	if err := os.MkdirAll(i.cfg.InstallDir, 0755); err != nil {
		return fault.Wrap(fault.KindFilesystem, "install binary", "create install directory", err)
	}

	dest := i.BinaryPath()
	if err := moveFile(downloaded, dest); err != nil {
		return fault.Wrap(fault.KindFilesystem, "install binary", fmt.Sprintf("move binary to %s", dest), err)
	}
	if err := SetExecutable(dest); err != nil {
		return fault.Wrap(fault.KindFilesystem, "install binary", dest, err)
	}

	fmt.Fprintf(i.out, "Installed %s to %s\n", BinaryName, dest)
	return nil
}

// extractArchive replaces the asset's versioned directory with the
// archive's content. A failed extraction leaves no versioned directory.
func (i *Installer) extractArchive(ctx context.Context, asset Asset, archive string) error {
	target := i.VersionedDir(asset.Kind)

	if err := os.RemoveAll(target); err != nil {
		return fault.Wrap(fault.KindFilesystem, "install "+asset.Kind.String(), fmt.Sprintf("remove %s", target), err)
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return fault.Wrap(fault.KindFilesystem, "install "+asset.Kind.String(), fmt.Sprintf("create %s", target), err)
	}

	if err := i.cfg.Extractor.Extract(ctx, archive, target); err != nil {
		os.RemoveAll(target)
		return fault.Wrap(fault.KindExtraction, "extract", fmt.Sprintf("failed to extract %s", asset.Filename), err)
	}

	fmt.Fprintf(i.out, "Installed %s to %s\n", asset.Kind, target)
	return nil
}

func (i *Installer) networkFault(message string, cause error) error {
	f := fault.Wrap(fault.KindNetwork, "download", message, cause)
	if !i.cfg.Authenticated {
		f.WithHint(release.TokenHint)
	}
	return f
}
