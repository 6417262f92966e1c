// -- cmd/root.go --
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/config"
	"github.com/xkilldash9x/pomkit/pkg/observability"
)

// EnvPrefix prefixes every environment override, e.g. POMKIT_DRIVER_ENGINE.
const EnvPrefix = "POMKIT"

// app is the state one command invocation shares across subcommands.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

// osExit is swapped out in tests.
var osExit = os.Exit

// Execute builds the command tree and runs it.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}

// NewRootCmd returns a fresh command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:           "pomkit",
		Short:         "pomkit drives browsers through page-object locators.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initializeConfig(cmd); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			cfg, err := config.NewConfigFromViper(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if err := observability.InitializeLogger(cfg); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			observability.GetLogger().Debug("Starting pomkit", zap.String("version", Version), zap.String("command", cmd.Name()))
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./pomkit.yaml)")
	root.PersistentFlags().String("engine", "", "browser engine: playwright or chromedp")
	root.PersistentFlags().String("browser", "", "browser kind: chromium, chrome, msedge, firefox or webkit")
	root.PersistentFlags().Bool("headed", false, "show the browser window")
	root.PersistentFlags().Duration("timeout", 0, "default engine timeout")
	root.PersistentFlags().String("trace-dir", "", "directory for trace logs, screenshots, video and HAR files")

	root.AddCommand(newComposeCmd(a), newProbeCmd(a), newConfigCmd(a))
	return root
}

// initializeConfig layers the config file, POMKIT_ env vars and flags over the defaults.
func (a *app) initializeConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("pomkit")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	flags := cmd.Flags()
	bindings := map[string]string{
		"engine":    "driver.engine",
		"browser":   "browser.kind",
		"timeout":   "driver.timeout",
		"trace-dir": "tracing.dir",
	}
	for flag, key := range bindings {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			a.v.Set(key, f.Value.String())
		}
	}
	if headed, err := flags.GetBool("headed"); err == nil && flags.Changed("headed") {
		a.v.Set("browser.headless", !headed)
	}
	return nil
}
