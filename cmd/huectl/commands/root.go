// Package commands implements the huectl command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/app"
	"github.com/dokzlo13/huectl/internal/config"
)

// globals holds what the persistent flags resolve to.
type globals struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand(version string) *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:           "huectl",
		Short:         "Control Philips Hue lights from the command line",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if g.logLevel != "" {
				cfg.Log.Level = g.logLevel
			}
			SetupLogging(os.Stderr, cfg.Log.Level, cfg.Log.JSON, cfg.Log.Colors)
			g.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", config.DefaultPath, "Path to configuration file")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newDiscoverCommand(g),
		newPairCommand(g),
		newBridgesCommand(g),
		newLightsCommand(g),
		newShowCommand(g),
		newOnCommand(g),
		newOffCommand(g),
		newBrightnessCommand(g),
		newColorCommand(g),
		newWatchCommand(g),
		newRunCommand(g),
		newConvertCommand(g),
	)

	return cmd
}

// withApp opens the application for the duration of fn.
func (g *globals) withApp(fn func(a *app.App) error) error {
	a, err := app.New(g.cfg)
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer a.Close()
	return fn(a)
}

// withHue opens the application and connects to the bridge.
func (g *globals) withHue(cmd *cobra.Command, fn func(a *app.App, hue *app.HueService) error) error {
	return g.withApp(func(a *app.App) error {
		hue, err := a.Hue(cmd.Context())
		if err != nil {
			return err
		}
		defer hue.Close()
		return fn(a, hue)
	})
}
