// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageharness/internal/browser"
	"github.com/xkilldash9x/pageharness/internal/config"
	"github.com/xkilldash9x/pageharness/internal/driver"
	"github.com/xkilldash9x/pageharness/internal/observability"
)

// flagKeys maps persistent flags onto configuration keys so that a flag set on
// the command line overrides the config file and environment.
var flagKeys = map[string]string{
	"browser":     "browser.kind",
	"headless":    "browser.headless",
	"timeout":     "browser.timeout",
	"drivers-dir": "browser.drivers_dir",
	"os-name":     "browser.os_name",
}

// app carries state from PersistentPreRunE to the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	logger *zap.Logger

	// fs, workingDir and launcher are swapped out by tests.
	fs         afero.Fs
	workingDir string
	launcher   driver.Launcher
}

// NewRootCommand builds the pageharness command tree with a fresh viper instance.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{v: viper.New(), fs: afero.NewOsFs()})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "pageharness",
		Short:             "pageharness drives real browsers through page objects.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.StringP("browser", "b", "", "browser kind: chrome, firefox, edge, internet_explorer, opera or safari")
	flags.Bool("headless", true, "run the browser without a window where supported")
	flags.Duration("timeout", 0, "how long element lookups wait for visibility")
	flags.String("drivers-dir", "", "directory holding <os>/<driver> binaries")
	flags.String("os-name", "", "platform folder under the drivers directory (default is the host OS)")

	root.AddCommand(
		newVersionCmd(),
		newDriversCmd(a),
		newOpenCmd(a),
		newSearchCmd(a),
	)
	return root
}

// initialize loads configuration and sets up logging before any command runs.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	// 1. Defaults, environment and config file.
	config.SetDefaults(a.v)
	config.BindEnvironment(a.v)
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and environment apply.
	}

	// 2. Flags take precedence over everything else.
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	// 3. Materialize and validate.
	cfg, err := config.NewConfigFromViper(a.v)
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger())
		return err
	}
	a.cfg = cfg

	// 4. Logging.
	observability.InitializeLogger(cfg.Logger())
	a.logger = observability.GetLogger()
	a.logger.Debug("Configuration loaded.",
		zap.String("config_file", a.v.ConfigFileUsed()),
		zap.String("browser", cfg.Browser().Kind),
		zap.String("version", Version),
	)
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag --%s is not defined", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// kind parses the configured browser kind.
func (a *app) kind() (driver.Kind, error) {
	return driver.ParseKind(a.cfg.Browser().Kind)
}

func (a *app) dir() (string, error) {
	if a.workingDir != "" {
		return a.workingDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return wd, nil
}

func (a *app) sessionOptions() []browser.Option {
	opts := []browser.Option{browser.WithFs(a.fs)}
	if a.workingDir != "" {
		opts = append(opts, browser.WithWorkingDir(a.workingDir))
	}
	if a.launcher != nil {
		opts = append(opts, browser.WithLauncher(a.launcher))
	}
	return opts
}

// withSession runs fn against a session of the configured kind and closes it afterwards.
func (a *app) withSession(ctx context.Context, fn func(*browser.Session) error) error {
	kind, err := a.kind()
	if err != nil {
		return err
	}
	return browser.WithSession(ctx, kind, a.cfg, a.logger, fn, a.sessionOptions()...)
}

// Execute runs the command tree with ctx, logging any failure.
func Execute(ctx context.Context) error {
	defer observability.Sync()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed.", zap.Error(err))
		return err
	}
	return nil
}
