// File: internal/driver/selector.go
package driver

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"

	"github.com/xkilldash9x/pageharness/internal/config"
)

var (
	errIsDirectory   = errors.New("path is a directory")
	errNotExecutable = errors.New("file is not executable")
)

// Selector resolves driver binaries laid out as
// <working-dir>/<drivers-dir>/<os-name>/<binary>.
type Selector struct {
	fs     afero.Fs
	root   string
	osName string
	// checkExec is false on Windows hosts, where permission bits carry no meaning.
	checkExec bool
}

// NewSelector builds a Selector over fs. A relative cfg.DriversDir is joined to
// workingDir; an empty cfg.OSName falls back to runtime.GOOS.
func NewSelector(fs afero.Fs, workingDir string, cfg config.BrowserConfig) *Selector {
	root := cfg.DriversDir
	if !filepath.IsAbs(root) {
		root = filepath.Join(workingDir, root)
	}
	osName := cfg.OSName
	if osName == "" {
		osName = runtime.GOOS
	}
	return &Selector{
		fs:        fs,
		root:      root,
		osName:    osName,
		checkExec: runtime.GOOS != "windows",
	}
}

// OSName is the platform folder the selector looks in.
func (s *Selector) OSName() string {
	return s.osName
}

// Path computes where the driver for kind is expected, without touching the filesystem.
func (s *Selector) Path(kind Kind) (string, error) {
	binary, err := kind.BinaryName(s.osName)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, s.osName, binary), nil
}

// Resolve returns the path of an existing, executable driver for kind.
func (s *Selector) Resolve(kind Kind) (string, error) {
	path, err := s.Path(kind)
	if err != nil {
		return "", err
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return "", s.unavailable(kind, path, err)
	}
	if info.IsDir() {
		return "", s.unavailable(kind, path, errIsDirectory)
	}
	if s.checkExec && info.Mode().Perm()&0o111 == 0 {
		return "", s.unavailable(kind, path, errNotExecutable)
	}
	return path, nil
}

func (s *Selector) unavailable(kind Kind, path string, cause error) error {
	return &DriverUnavailableError{OS: s.osName, Kind: kind, Path: path, Err: cause}
}

// Availability is the resolution outcome for one kind.
type Availability struct {
	Kind Kind
	Path string
	Err  error
}

// Available reports whether the driver was found.
func (a Availability) Available() bool {
	return a.Err == nil
}

// Inventory resolves every supported kind.
func (s *Selector) Inventory() []Availability {
	all := Kinds()
	out := make([]Availability, 0, len(all))
	for _, k := range all {
		path, err := s.Resolve(k)
		if err != nil {
			// Report the expected location even when it is missing.
			path, _ = s.Path(k)
		}
		out = append(out, Availability{Kind: k, Path: path, Err: err})
	}
	return out
}

// String is used in log lines.
func (s *Selector) String() string {
	return fmt.Sprintf("%s (%s)", s.root, s.osName)
}
