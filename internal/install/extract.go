package install

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/terminal-use/sb0-install/internal/transport"
)

// Extractor unpacks an archive into a destination directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// TarGzExtractor extracts .tar.gz archives in-process.
type TarGzExtractor struct{}

// NewTarGzExtractor creates a new in-process extractor.
func NewTarGzExtractor() *TarGzExtractor {
	return &TarGzExtractor{}
}

// Extract extracts a .tar.gz archive to destDir. Entries that would land
// outside destDir are rejected, including paths that reach outside through
// symlinks created by earlier entries.
func (e *TarGzExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}
	root := filepath.Clean(destDir)
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("resolve dest dir: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target := filepath.Join(root, header.Name)
		if target == root {
			// "./" entry of archives created with `tar -C dir .`
			continue
		}
		if !within(root, target) {
			return fmt.Errorf("illegal file path: %s", header.Name)
		}
		path, err := resolveEntry(realRoot, target)
		if err != nil {
			return fmt.Errorf("illegal file path: %s: %w", header.Name, err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := removeNonDir(path); err != nil {
				return err
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", path, err)
			}

		case tar.TypeReg:
			if err := removeNonDir(path); err != nil {
				return err
			}
			if err := writeEntry(tarReader, path, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := checkLinkTarget(realRoot, filepath.Dir(path), header.Linkname); err != nil {
				return fmt.Errorf("illegal symlink target: %s -> %s: %w", header.Name, header.Linkname, err)
			}
			if err := replaceWithLink(path, func() error { return os.Symlink(header.Linkname, path) }); err != nil {
				return fmt.Errorf("create symlink %s: %w", path, err)
			}

		case tar.TypeLink:
			source, err := hardlinkSource(root, realRoot, header.Linkname)
			if err != nil {
				return fmt.Errorf("illegal hardlink target: %s -> %s: %w", header.Name, header.Linkname, err)
			}
			if err := replaceWithLink(path, func() error { return os.Link(source, path) }); err != nil {
				return fmt.Errorf("create hardlink %s: %w", path, err)
			}

		default:
			// Skip other types (char devices, block devices, etc.)
			continue
		}
	}

	return nil
}

var errOutsideDest = errors.New("resolves outside the destination directory")

// resolveEntry returns the on-disk location of target with symlinks in its
// existing parent directories resolved. The final component is not
// followed.
func resolveEntry(realRoot, target string) (string, error) {
	dir := filepath.Dir(target)
	var missing []string
	for {
		if _, err := os.Lstat(dir); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errOutsideDest
		}
		missing = append([]string{filepath.Base(dir)}, missing...)
		dir = parent
	}

	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	resolved := filepath.Join(append(append([]string{realDir}, missing...), filepath.Base(target))...)
	if !within(realRoot, resolved) || resolved == realRoot {
		return "", errOutsideDest
	}
	return resolved, nil
}

// checkLinkTarget accepts relative symlink targets that stay below realRoot
// when resolved from dir. ".." is only allowed as a leading component.
func checkLinkTarget(realRoot, dir, linkname string) error {
	if linkname == "" || filepath.IsAbs(linkname) {
		return errors.New("absolute or empty target")
	}
	leading := true
	for _, part := range strings.Split(filepath.ToSlash(linkname), "/") {
		switch {
		case part == "..":
			if !leading {
				return errors.New(`".." after a path component`)
			}
		case part == "" || part == ".":
		default:
			leading = false
		}
	}
	if !within(realRoot, filepath.Join(dir, linkname)) {
		return errOutsideDest
	}
	return nil
}

// hardlinkSource resolves a hardlink target, which tar records relative to
// the archive root, and requires an already extracted regular file below
// realRoot.
func hardlinkSource(root, realRoot, linkname string) (string, error) {
	lexical := filepath.Join(root, linkname)
	if filepath.IsAbs(linkname) || !within(root, lexical) || lexical == root {
		return "", errOutsideDest
	}
	source, err := filepath.EvalSymlinks(lexical)
	if err != nil {
		return "", err
	}
	if !within(realRoot, source) {
		return "", errOutsideDest
	}
	info, err := os.Lstat(source)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", errors.New("target is not a regular file")
	}
	return source, nil
}

// removeNonDir removes an existing non-directory at path, so later writes
// never follow a symlink left by an earlier entry.
func removeNonDir(path string) error {
	info, err := os.Lstat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func replaceWithLink(path string, link func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := removeNonDir(path); err != nil {
		return err
	}
	return link()
}

func writeEntry(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	if mode == 0 {
		mode = 0644
	}
	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	return outFile.Close()
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// CommandExtractor extracts archives with the system tar command.
type CommandExtractor struct {
	run transport.Runner
}

// NewCommandExtractor creates an extractor running tar through run.
// A nil run uses transport.ExecRunner.
func NewCommandExtractor(run transport.Runner) *CommandExtractor {
	if run == nil {
		run = transport.ExecRunner
	}
	return &CommandExtractor{run: run}
}

// Extract runs `tar -xzf archivePath -C destDir`.
func (e *CommandExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	if _, err := e.run(ctx, "tar", "-xzf", archivePath, "-C", destDir); err != nil {
		return fmt.Errorf("extract %s: %w", filepath.Base(archivePath), err)
	}
	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
