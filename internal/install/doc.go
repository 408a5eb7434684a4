// Package install downloads the three sb0 release assets and places them on
// disk: the platform binary, the wheels archive and the templates archive.
//
// Every asset follows the same protocol. A fresh temporary directory is
// created, the asset is downloaded into it (and optionally verified against a
// checksum or signature sidecar), then the binary is moved into the install
// directory or the archive is extracted into a versioned directory that is
// removed and recreated first. The temporary directory is removed on every
// path out of the protocol.
//
// After both archives are extracted the assets-version marker is written to
// the data directory. Assets installed earlier in a failed run are not
// rolled back; the marker only ever names a version whose archives were
// fully extracted.
//
// # Usage
//
//	inst, err := install.NewInstaller(install.Config{
//	    Client:       client,
//	    Extractor:    install.NewTarGzExtractor(),
//	    Repo:         "terminal-use/sb0-cli",
//	    Tag:          "v1.2.3",
//	    Platform:     "linux-x64",
//	    InstallDir:   "/home/user/.local/bin",
//	    DataDir:      "/home/user/.local/share/sb0",
//	    WheelsDir:    "/home/user/.local/share/sb0/wheels",
//	    TemplatesDir: "/home/user/.local/share/sb0/templates",
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := inst.Run(ctx)
package install
