package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	backend    string
	port       int
	db         string
	logLevel   string
	noKeyboard bool
	noBrowser  bool
}

func (c *Config) validate() error {
	if c.backend == "" {
		return errors.New("--backend is required")
	}
	parsed, err := url.Parse(c.backend)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid backend URL: %q", c.backend)
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.logLevel)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SYNAPHACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "synaphack",
		Short:         "A local console for running hackathons against a SynapHack backend.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.backend, "backend", "b", "http://localhost:8000", "base URL of the backend (env: SYNAPHACK_BACKEND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SYNAPHACK_PORT)")
	fs.StringVar(&cfg.db, "db", "synaphack.db", "SQLite settings database path (env: SYNAPHACK_DB)")
	fs.StringVar(&cfg.logLevel, "loglevel", "info", "log level: debug, info, warn, error (env: SYNAPHACK_LOGLEVEL)")
	fs.BoolVar(&cfg.noKeyboard, "no-keyboard", false, "disable keyboard shortcuts (env: SYNAPHACK_NO_KEYBOARD)")
	fs.BoolVar(&cfg.noBrowser, "no-browser", false, "do not open the console in a browser on startup (env: SYNAPHACK_NO_BROWSER)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("synaphack v{{.Version}}\n")

	return cmd
}
