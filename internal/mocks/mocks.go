// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tebeka/selenium"

	"github.com/xkilldash9x/pageharness/internal/config"
	"github.com/xkilldash9x/pageharness/internal/driver"
	"github.com/xkilldash9x/pageharness/internal/pages"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

var _ config.Interface = (*MockConfig)(nil)

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Browser() config.BrowserConfig {
	args := m.Called()
	return args.Get(0).(config.BrowserConfig)
}

// --- Setters ---

func (m *MockConfig) SetBrowserKind(kind string) {
	m.Called(kind)
}

func (m *MockConfig) SetBrowserHeadless(b bool) {
	m.Called(b)
}

func (m *MockConfig) SetBrowserTimeout(d time.Duration) {
	m.Called(d)
}

func (m *MockConfig) SetBrowserDriversDir(dir string) {
	m.Called(dir)
}

func (m *MockConfig) SetBrowserOSName(name string) {
	m.Called(name)
}

// -- Launcher Mock --

// MockLauncher mocks driver.Launcher.
type MockLauncher struct {
	mock.Mock
}

var _ driver.Launcher = (*MockLauncher)(nil)

// Launch returns the configured WebDriver and StopFunc. Either may be nil.
func (m *MockLauncher) Launch(ctx context.Context, spec driver.LaunchSpec) (selenium.WebDriver, driver.StopFunc, error) {
	args := m.Called(ctx, spec)
	var wd selenium.WebDriver
	if v := args.Get(0); v != nil {
		wd = v.(selenium.WebDriver)
	}
	var stop driver.StopFunc
	if v := args.Get(1); v != nil {
		stop = v.(driver.StopFunc)
	}
	return wd, stop, args.Error(2)
}

// -- Browser Mock --

// MockBrowser mocks pages.Browser.
type MockBrowser struct {
	mock.Mock
}

var _ pages.Browser = (*MockBrowser)(nil)

func (m *MockBrowser) OpenURL(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockBrowser) Write(ctx context.Context, locator, text string) error {
	return m.Called(ctx, locator, text).Error(0)
}

func (m *MockBrowser) ClickElement(ctx context.Context, locator string) error {
	return m.Called(ctx, locator).Error(0)
}

func (m *MockBrowser) Text(ctx context.Context, locator string) (string, error) {
	args := m.Called(ctx, locator)
	return args.String(0), args.Error(1)
}

func (m *MockBrowser) Title(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
