// File: internal/driver/launcher.go
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pageharness/internal/config"
)

// StopFunc terminates the driver process behind a session.
type StopFunc func() error

// LaunchSpec is everything needed to start one browser session. The driver
// path travels here explicitly instead of through process-wide settings, so
// two kinds can be launched concurrently.
type LaunchSpec struct {
	Kind       Kind
	DriverPath string
	Headless   bool
	Args       []string
	// BinaryPath optionally overrides the browser executable.
	BinaryPath     string
	StartupTimeout time.Duration
}

// NewLaunchSpec fills a LaunchSpec from the browser configuration.
func NewLaunchSpec(kind Kind, driverPath string, cfg config.BrowserConfig) LaunchSpec {
	return LaunchSpec{
		Kind:           kind,
		DriverPath:     driverPath,
		Headless:       cfg.Headless,
		Args:           append([]string(nil), cfg.Args...),
		BinaryPath:     cfg.BinaryPath,
		StartupTimeout: cfg.StartupTimeout,
	}
}

// Launcher starts a driver and opens a remote session on it.
type Launcher interface {
	Launch(ctx context.Context, spec LaunchSpec) (selenium.WebDriver, StopFunc, error)
}

// stopper is satisfied by *selenium.Service and *driverProcess.
type stopper interface {
	Stop() error
}

// ServiceLauncher runs the driver binary as a local service on a free port.
type ServiceLauncher struct {
	logger    *zap.Logger
	newRemote func(selenium.Capabilities, string) (selenium.WebDriver, error)
}

var _ Launcher = (*ServiceLauncher)(nil)

// NewServiceLauncher creates the production launcher.
func NewServiceLauncher(logger *zap.Logger) *ServiceLauncher {
	return &ServiceLauncher{
		logger:    logger.Named("launcher"),
		newRemote: selenium.NewRemote,
	}
}

// Launch starts spec.DriverPath and returns a connected WebDriver. If the remote
// session cannot be created the driver process is stopped before returning.
func (l *ServiceLauncher) Launch(ctx context.Context, spec LaunchSpec) (selenium.WebDriver, StopFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if !spec.Kind.Valid() {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedBrowser, spec.Kind)
	}

	port, err := freePort()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reserve a port for %s driver: %w", spec.Kind, err)
	}

	log := l.logger.With(zap.String("browser", spec.Kind.String()), zap.Int("port", port))
	log.Info("Starting driver service.", zap.String("driver_path", spec.DriverPath))

	svc, urlPrefix, err := l.startService(ctx, spec, port, driverOutput(log))
	if err != nil {
		return nil, nil, err
	}

	if spec.Headless && (spec.Kind == InternetExplorer || spec.Kind == Safari) {
		log.Warn("Headless mode is not supported for this browser; launching with a window.")
	}

	wd, err := l.newRemote(Capabilities(spec), urlPrefix)
	if err != nil {
		stopErr := svc.Stop()
		return nil, nil, errors.Join(fmt.Errorf("failed to open %s session: %w", spec.Kind, err), stopErr)
	}

	log.Info("Driver service ready.", zap.String("url", urlPrefix))
	return wd, svc.Stop, nil
}

// startService picks the service flavour for the kind. Chromium based drivers
// share chromedriver's command line.
func (l *ServiceLauncher) startService(ctx context.Context, spec LaunchSpec, port int, out io.Writer) (stopper, string, error) {
	base := "http://127.0.0.1:" + strconv.Itoa(port)

	switch spec.Kind {
	case Chrome, Edge, Opera:
		svc, err := selenium.NewChromeDriverService(spec.DriverPath, port, selenium.Output(out))
		if err != nil {
			return nil, "", fmt.Errorf("failed to start %s driver service: %w", spec.Kind, err)
		}
		return svc, base + "/wd/hub", nil

	case Firefox:
		svc, err := selenium.NewGeckoDriverService(spec.DriverPath, port, selenium.Output(out))
		if err != nil {
			return nil, "", fmt.Errorf("failed to start %s driver service: %w", spec.Kind, err)
		}
		return svc, base, nil

	case InternetExplorer:
		p, err := startProcess(ctx, spec.DriverPath, []string{"/port=" + strconv.Itoa(port)}, base+"/status", spec.StartupTimeout, out)
		if err != nil {
			return nil, "", fmt.Errorf("failed to start %s driver service: %w", spec.Kind, err)
		}
		return p, base, nil

	case Safari:
		p, err := startProcess(ctx, spec.DriverPath, []string{"--port", strconv.Itoa(port)}, base+"/status", spec.StartupTimeout, out)
		if err != nil {
			return nil, "", fmt.Errorf("failed to start %s driver service: %w", spec.Kind, err)
		}
		return p, base, nil
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedBrowser, spec.Kind)
}

// Capabilities builds the W3C capabilities for spec.
func Capabilities(spec LaunchSpec) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": spec.Kind.BrowserName()}
	args := append([]string(nil), spec.Args...)

	switch spec.Kind {
	case Chrome:
		if spec.Headless {
			args = append(args, "--headless=new")
		}
		caps.AddChrome(chrome.Capabilities{Path: spec.BinaryPath, Args: args})

	case Edge:
		if spec.Headless {
			args = append(args, "--headless=new")
		}
		caps["ms:edgeOptions"] = chromiumOptions(spec.BinaryPath, args)

	case Opera:
		if spec.Headless {
			args = append(args, "--headless")
		}
		caps["operaOptions"] = chromiumOptions(spec.BinaryPath, args)

	case Firefox:
		if spec.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Binary: spec.BinaryPath, Args: args})
	}
	return caps
}

func chromiumOptions(binary string, args []string) map[string]interface{} {
	opts := map[string]interface{}{"args": args}
	if binary != "" {
		opts["binary"] = binary
	}
	return opts
}

// freePort asks the kernel for an unused localhost port.
func freePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// driverOutput routes the driver's stdout and stderr into the debug log.
func driverOutput(log *zap.Logger) io.Writer {
	std, err := zap.NewStdLogAt(log.Named("driver"), zapcore.DebugLevel)
	if err != nil {
		return io.Discard
	}
	return std.Writer()
}
