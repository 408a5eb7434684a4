package install

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/jedisct1/go-minisign"
)

// VerifyMode selects how downloaded assets are verified.
type VerifyMode string

const (
	// VerifyNone installs assets without verification.
	VerifyNone VerifyMode = "none"
	// VerifyChecksum compares against a "<asset>.sha256" sidecar.
	VerifyChecksum VerifyMode = "checksum"
	// VerifyGPG checks a detached "<asset>.asc" OpenPGP signature.
	VerifyGPG VerifyMode = "gpg"
	// VerifyMinisign checks a "<asset>.minisig" minisign signature.
	VerifyMinisign VerifyMode = "minisign"
)

// ParseVerifyMode parses a mode name; the empty string means VerifyNone.
func ParseVerifyMode(s string) (VerifyMode, error) {
	switch VerifyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", VerifyNone:
		return VerifyNone, nil
	case VerifyChecksum:
		return VerifyChecksum, nil
	case VerifyGPG:
		return VerifyGPG, nil
	case VerifyMinisign:
		return VerifyMinisign, nil
	default:
		return "", fmt.Errorf("unknown verify mode: %s (supported: none, checksum, gpg, minisign)", s)
	}
}

// NeedsKey reports whether the mode requires a public key file.
func (m VerifyMode) NeedsKey() bool {
	return m == VerifyGPG || m == VerifyMinisign
}

// Verifier checks downloaded assets against sidecar files.
type Verifier struct {
	mode    VerifyMode
	keyPath string
}

// NewVerifier creates a verifier. keyPath is the armored or binary OpenPGP
// keyring for VerifyGPG and the minisign public key for VerifyMinisign.
func NewVerifier(mode VerifyMode, keyPath string) (*Verifier, error) {
	if mode.NeedsKey() && keyPath == "" {
		return nil, fmt.Errorf("verify mode %s requires a public key", mode)
	}
	return &Verifier{mode: mode, keyPath: keyPath}, nil
}

// Mode returns the verification mode.
func (v *Verifier) Mode() VerifyMode {
	return v.mode
}

// Enabled reports whether assets are verified at all.
func (v *Verifier) Enabled() bool {
	return v != nil && v.mode != VerifyNone
}

// SidecarName returns the sidecar file name for filename.
func (v *Verifier) SidecarName(filename string) string {
	switch v.mode {
	case VerifyChecksum:
		return filename + ".sha256"
	case VerifyGPG:
		return filename + ".asc"
	case VerifyMinisign:
		return filename + ".minisig"
	default:
		return ""
	}
}

// Verify checks assetPath against sidecarPath.
func (v *Verifier) Verify(assetPath, sidecarPath string) error {
	switch v.mode {
	case VerifyNone:
		return nil
	case VerifyChecksum:
		return verifySHA256(assetPath, sidecarPath)
	case VerifyGPG:
		return verifyGPG(assetPath, sidecarPath, v.keyPath)
	case VerifyMinisign:
		return verifyMinisign(assetPath, sidecarPath, v.keyPath)
	default:
		return fmt.Errorf("unknown verify mode: %s", v.mode)
	}
}

// verifySHA256 verifies a file using a SHA256 checksum file
func verifySHA256(assetPath, checksumPath string) error {
	actualChecksum, err := calculateSHA256(assetPath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	expectedChecksum, err := findChecksum(checksumPath, filepath.Base(assetPath))
	if err != nil {
		return fmt.Errorf("find checksum: %w", err)
	}

	if !strings.EqualFold(actualChecksum, expectedChecksum) {
		return fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s", actualChecksum, expectedChecksum)
	}
	return nil
}

// verifyGPG verifies a file using a detached OpenPGP signature
func verifyGPG(assetPath, signaturePath, keyringPath string) error {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	assetFile, err := os.Open(assetPath)
	if err != nil {
		return fmt.Errorf("open asset: %w", err)
	}
	defer assetFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	// Try armored first, then binary
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, assetFile, sigFile, nil)
	if err != nil {
		if _, seekErr := assetFile.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("rewind asset: %w", seekErr)
		}
		if _, seekErr := sigFile.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("rewind signature: %w", seekErr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, assetFile, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

// verifyMinisign verifies a file using a minisign signature
func verifyMinisign(assetPath, signaturePath, pubKeyPath string) error {
	pubKey, err := minisign.NewPublicKeyFromFile(pubKeyPath)
	if err != nil {
		return fmt.Errorf("read minisign pubkey: %w", err)
	}

	sig, err := minisign.NewSignatureFromFile(signaturePath)
	if err != nil {
		return fmt.Errorf("read minisign signature: %w", err)
	}

	content, err := os.ReadFile(assetPath)
	if err != nil {
		return fmt.Errorf("read asset: %w", err)
	}

	valid, err := pubKey.Verify(content, sig)
	if err != nil {
		return fmt.Errorf("minisign: verification error: %w", err)
	}
	if !valid {
		return fmt.Errorf("minisign: signature verification failed")
	}
	return nil
}

// loadKeyring loads an armored or binary OpenPGP keyring
func loadKeyring(keyringPath string) (openpgp.EntityList, error) {
	keyringFile, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		if _, seekErr := keyringFile.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", seekErr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}
	return keyring, nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum finds the checksum for filename in a checksum file.
// Accepts "sha256sum" lines ("<hex>  <name>", optionally "*<name>") and a
// lone "<hex>" line as written by per-asset sidecars.
func findChecksum(checksumPath, filename string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	var lone string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		switch len(parts) {
		case 0:
			continue
		case 1:
			if lone == "" {
				lone = parts[0]
			}
			continue
		}

		name := strings.TrimPrefix(parts[1], "*")
		if name == filename || filepath.Base(name) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}
	if lone != "" {
		return lone, nil
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}
