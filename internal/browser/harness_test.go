// File: internal/browser/harness_test.go
package browser_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/pageharness/internal/browser"
	"github.com/xkilldash9x/pageharness/internal/config"
	"github.com/xkilldash9x/pageharness/internal/driver"
	"github.com/xkilldash9x/pageharness/internal/mocks"
)

const (
	testWorkDir = "/work"
	testPageURL = "https://shop.example.test/"
	testTimeout = 250 * time.Millisecond
)

// harness wires a Session to an in-memory driver.
type harness struct {
	session  *browser.Session
	fake     *mocks.FakeWebDriver
	launcher *mocks.MockLauncher
	fs       afero.Fs
	cfg      *config.Config
	stops    *atomic.Int32
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.BrowserCfg.OSName = "linux"
	cfg.BrowserCfg.Timeout = testTimeout
	cfg.BrowserCfg.PollInterval = 10 * time.Millisecond
	return cfg
}

func installDriver(t *testing.T, fs afero.Fs, kind driver.Kind) string {
	t.Helper()
	binary, err := kind.BinaryName("linux")
	require.NoError(t, err)
	path := filepath.Join(testWorkDir, "resources", "drivers", "linux", binary)
	require.NoError(t, afero.WriteFile(fs, path, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, fs.Chmod(path, os.FileMode(0o755)))
	return path
}

func countingStop(n *atomic.Int32) driver.StopFunc {
	return func() error {
		n.Add(1)
		return nil
	}
}

// newHarness builds a Ready chrome session on a fake serving page at testPageURL.
func newHarness(t *testing.T, page *mocks.FakeDocument, tweak ...func(*config.Config)) *harness {
	t.Helper()
	cfg := testConfig()
	for _, fn := range tweak {
		fn(cfg)
	}

	h := &harness{
		fake:     mocks.NewFakeWebDriver(map[string]*mocks.FakeDocument{testPageURL: page}),
		launcher: new(mocks.MockLauncher),
		fs:       afero.NewMemMapFs(),
		cfg:      cfg,
		stops:    new(atomic.Int32),
	}
	installDriver(t, h.fs, driver.Chrome)
	h.launcher.On("Launch", mock.Anything, mock.AnythingOfType("driver.LaunchSpec")).
		Return(h.fake, countingStop(h.stops), nil)

	s, err := browser.NewSession(context.Background(), driver.Chrome, cfg, zaptest.NewLogger(t), h.options()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	h.session = s

	if page != nil {
		require.NoError(t, s.OpenURL(context.Background(), testPageURL))
	}
	return h
}

func (h *harness) options() []browser.Option {
	return []browser.Option{
		browser.WithFs(h.fs),
		browser.WithWorkingDir(testWorkDir),
		browser.WithLauncher(h.launcher),
	}
}

func visible(tag, text string) *mocks.FakeElement {
	return &mocks.FakeElement{Tag: tag, Content: text}
}
