// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pageharness/internal/browser"
	"github.com/xkilldash9x/pageharness/internal/driver"
	"github.com/xkilldash9x/pageharness/internal/mocks"
	"github.com/xkilldash9x/pageharness/internal/pages"
)

const testWorkDir = "/work"

// newTestApp returns an app over an in-memory driver tree and a mocked launcher.
func newTestApp(t *testing.T, pageSet map[string]*mocks.FakeDocument) (*app, *mocks.MockLauncher, *mocks.FakeWebDriver) {
	t.Helper()
	fake := mocks.NewFakeWebDriver(pageSet)
	launcher := new(mocks.MockLauncher)
	launcher.On("Launch", mock.Anything, mock.Anything).Return(fake, driver.StopFunc(nil), nil)

	v := viper.New()
	// Keep a config.yaml in the package directory from leaking in.
	v.SetConfigName("a-config-file-that-does-not-exist")

	return &app{
		v:          v,
		fs:         afero.NewMemMapFs(),
		workingDir: testWorkDir,
		launcher:   launcher,
	}, launcher, fake
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

// run executes the command tree with args and returns combined output.
func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--os-name", "linux", "--timeout", "200ms"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	out, err := run(t, a, "version")
	require.NoError(t, err)
	assert.Equal(t, "pageharness version "+Version+"\n", out)

	a, _, _ = newTestApp(t, nil)
	out, err = run(t, a, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestFlagsOverrideConfig(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	_, err := run(t, a, "-b", "firefox", "--headless=false", "--drivers-dir", "/opt/drivers", "version")
	require.NoError(t, err)

	cfg := a.cfg.Browser()
	assert.Equal(t, "firefox", cfg.Kind)
	assert.False(t, cfg.Headless)
	assert.Equal(t, "/opt/drivers", cfg.DriversDir)
	assert.Equal(t, "linux", cfg.OSName)
	assert.Equal(t, "200ms", cfg.Timeout.String())
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PAGEHARNESS_BROWSER_KIND", "edge")
	a, _, _ := newTestApp(t, nil)
	_, err := run(t, a, "version")
	require.NoError(t, err)
	assert.Equal(t, "edge", a.cfg.Browser().Kind)
}

func TestInvalidConfiguration(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	_, err := run(t, a, "--timeout", "-1s", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMissingConfigFile(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	_, err := run(t, a, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pageharness.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser:\n  kind: safari\n  wait_strategy: both\n"), 0o600))

	a, _, _ := newTestApp(t, nil)
	_, err := run(t, a, "--config", path, "version")
	require.NoError(t, err)
	assert.Equal(t, "safari", a.cfg.Browser().Kind)
	assert.Equal(t, "both", string(a.cfg.Browser().WaitStrategy))
}

func TestDriversCommand(t *testing.T) {
	color.NoColor = true
	a, _, _ := newTestApp(t, nil)
	chrome := installDriver(t, a.fs, driver.Chrome)

	out, err := run(t, a, "drivers")
	require.NoError(t, err)

	assert.Contains(t, out, "Drivers in /work/resources/drivers (linux)")
	assert.Regexp(t, `chrome\s+available\s+`+chrome, out)
	assert.Regexp(t, `firefox\s+missing\s+/work/resources/drivers/linux/geckodriver`, out)
	assert.Regexp(t, `internet_explorer\s+missing`, out)
}

func TestDriversCheck(t *testing.T) {
	color.NoColor = true
	a, _, _ := newTestApp(t, nil)
	installDriver(t, a.fs, driver.Chrome)
	_, err := run(t, a, "drivers", "--check")
	assert.NoError(t, err)

	a, _, _ = newTestApp(t, nil)
	installDriver(t, a.fs, driver.Chrome)
	_, err = run(t, a, "-b", "firefox", "drivers", "--check")
	assert.ErrorIs(t, err, driver.ErrDriverUnavailable)
}

func TestOpenCommand(t *testing.T) {
	site := map[string]*mocks.FakeDocument{
		"https://app.example.test/": {
			Title: "Dashboard",
			Elements: map[string]*mocks.FakeElement{
				"//h1": {Tag: "h1", Content: "Welcome back"},
			},
		},
	}
	a, launcher, fake := newTestApp(t, site)
	installDriver(t, a.fs, driver.Chrome)

	out, err := run(t, a, "open", "https://app.example.test/", "--find", "//h1")
	require.NoError(t, err)
	assert.Contains(t, out, "Title: Dashboard")
	assert.Contains(t, out, "Found //h1: Welcome back")

	launcher.AssertNumberOfCalls(t, "Launch", 1)
	assert.Equal(t, 1, fake.QuitCalls, "session must be closed after the command")
}

func TestOpenCommandFailuresStillClose(t *testing.T) {
	a, _, fake := newTestApp(t, map[string]*mocks.FakeDocument{"https://app.example.test/": {Title: "x"}})
	installDriver(t, a.fs, driver.Chrome)

	_, err := run(t, a, "open", "https://app.example.test/", "--find", "//missing")
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
	assert.Equal(t, 1, fake.QuitCalls)
}

func TestOpenCommandWithoutDriver(t *testing.T) {
	a, launcher, _ := newTestApp(t, nil)

	_, err := run(t, a, "-b", "opera", "open", "https://app.example.test/")
	assert.ErrorIs(t, err, driver.ErrDriverUnavailable)
	launcher.AssertNotCalled(t, "Launch", mock.Anything, mock.Anything)
}

func TestOpenCommandUnsupportedBrowser(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	_, err := run(t, a, "-b", "netscape", "open", "https://app.example.test/")
	assert.ErrorIs(t, err, driver.ErrUnsupportedBrowser)
}

func TestSearchCommand(t *testing.T) {
	loc := pages.DefaultSearchLocators()
	field := &mocks.FakeElement{Tag: "input"}
	button := &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"value": "Search"}}
	site := map[string]*mocks.FakeDocument{
		pages.DefaultSearchURL: {
			Title: "Search",
			Elements: map[string]*mocks.FakeElement{
				loc.SearchField:            field,
				loc.SearchButton:           button,
				"(" + loc.Results + ")[1]": {Tag: "h3", Content: "The Go Programming Language"},
			},
		},
	}
	a, _, fake := newTestApp(t, site)
	installDriver(t, a.fs, driver.Chrome)

	out, err := run(t, a, "search", "golang", "tutorial")
	require.NoError(t, err)

	assert.Equal(t, "golang tutorial", field.Value)
	assert.Equal(t, 1, button.Clicks)
	assert.Contains(t, out, `First result for "golang tutorial": The Go Programming Language`)
	assert.Equal(t, 1, fake.QuitCalls)
}
