package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/terminal-use/sb0-install/internal/config"
	"github.com/terminal-use/sb0-install/internal/fault"
	installpkg "github.com/terminal-use/sb0-install/internal/install"
	"github.com/terminal-use/sb0-install/internal/lock"
	"github.com/terminal-use/sb0-install/internal/platform"
	"github.com/terminal-use/sb0-install/internal/release"
	"github.com/terminal-use/sb0-install/internal/shell"
	"github.com/terminal-use/sb0-install/internal/transport"
)

// install runs the pipeline: configuration, HTTP client selection, platform
// detection, version resolution, asset installation and the PATH report.
func install(ctx context.Context, opts *options, env *environment) error {
	logLevel := slog.LevelInfo
	if env.getenv(config.EnvDebug) != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(env.stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := config.Load(ctx, config.Options{
		Getenv:   env.getenv,
		GOOS:     env.goos,
		Detector: env.detector,
		Logger:   logger,
	})
	if err != nil {
		verbose := env.getenv(config.EnvDebug) != ""
		return fault.New(fault.KindUsage, "load configuration", config.FormatError(err, verbose))
	}
	if opts.version != "" {
		cfg.Version = opts.version
	}

	client, err := transport.Select(transport.Options{
		Kind:     cfg.HTTPClient,
		Token:    cfg.Token,
		LookPath: env.lookPath,
		Runner:   env.runner,
	})
	if err != nil {
		return err
	}
	logger.Debug("selected http client", "client", client.Name(), "authenticated", cfg.Authenticated())

	info, err := env.detector.Detect(ctx)
	if err != nil {
		return err
	}
	logger.Debug("detected platform", "tag", info.Tag(), "kernel", info.Kernel, "machine", info.Machine,
		"distro", info.Platform, "family", info.Family)

	resolver := release.NewResolver(client, cfg.APIURL, cfg.Repo, cfg.Authenticated())
	if cfg.Version == "" {
		fmt.Fprintf(env.stdout, "Fetching latest release of %s...\n", cfg.Repo)
	}
	tag, err := resolver.Resolve(ctx, cfg.Version)
	if err != nil {
		return err
	}

	installLock, err := lock.AcquireLock(ctx, cfg.DataDir)
	if err != nil {
		if errors.Is(err, lock.ErrLockExists) {
			return fault.Wrap(fault.KindEnvironment, "lock data directory", cfg.DataDir, err).
				WithHint(fmt.Sprintf("if no other installer is running, remove %s/%s", cfg.DataDir, lock.FileName))
		}
		return fault.Wrap(fault.KindFilesystem, "lock data directory", cfg.DataDir, err)
	}
	defer func() {
		if err := installLock.Release(); err != nil {
			logger.Warn("failed to release install lock", "path", installLock.Path(), "error", err)
		}
	}()

	previous, err := installpkg.ReadMarker(cfg.DataDir)
	if err != nil {
		logger.Warn("ignoring unreadable assets-version marker", "error", err)
	}
	printPlan(env, release.Compare(previous, tag), previous, tag, info)

	var verifier *installpkg.Verifier
	if cfg.VerifyMode != installpkg.VerifyNone {
		if verifier, err = installpkg.NewVerifier(cfg.VerifyMode, cfg.VerifyKey); err != nil {
			return fault.Wrap(fault.KindUsage, "configure verification", string(cfg.VerifyMode), err)
		}
	}

	installer, err := installpkg.NewInstaller(installpkg.Config{
		Client:        client,
		Extractor:     extractorFor(client, env.runner),
		Verifier:      verifier,
		DownloadBase:  cfg.DownloadURL,
		Repo:          cfg.Repo,
		Tag:           tag,
		Platform:      info.Tag(),
		InstallDir:    cfg.InstallDir,
		DataDir:       cfg.DataDir,
		WheelsDir:     cfg.WheelsDir,
		TemplatesDir:  cfg.TemplatesDir,
		Authenticated: cfg.Authenticated(),
		Output:        env.stdout,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	for _, asset := range installer.Assets() {
		logger.Debug("planned asset", "kind", asset.Kind.String(), "file", asset.Filename, "url", asset.URL)
	}

	result, err := installer.Run(ctx)
	if err != nil {
		return err
	}
	logger.Debug("install finished", "version", result.Version, "duration", result.Duration)
	fmt.Fprintf(env.stdout, "\nsb0 %s installed successfully.\n", result.Version)

	home := env.getenv(config.EnvHome)
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	shell.Check(ctx, shell.CheckOptions{
		Dir:       cfg.InstallDir,
		Binary:    installpkg.BinaryName,
		PathValue: env.getenv("PATH"),
		ShellEnv:  env.getenv("SHELL"),
		Home:      home,
	}).Write(env.stdout)

	return nil
}

// extractorFor pairs the external HTTP tools with the tar command, matching
// the tool chain of a shell install, and uses in-process extraction
// otherwise.
func extractorFor(client transport.Client, runner transport.Runner) installpkg.Extractor {
	switch client.Name() {
	case transport.KindCurl, transport.KindWget:
		return installpkg.NewCommandExtractor(runner)
	default:
		return installpkg.NewTarGzExtractor()
	}
}

func printPlan(env *environment, change release.Change, previous, tag string, info *platform.Info) {
	switch change {
	case release.ChangeFresh, release.ChangeReinstall:
		fmt.Fprintf(env.stdout, "%s sb0 %s (%s)\n", capitalize(change.String()), tag, info.Tag())
	default:
		fmt.Fprintf(env.stdout, "%s sb0 assets from %s to %s (%s)\n",
			capitalize(change.String()), previous, release.Plain(tag), info.Tag())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
