package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewSettingsCmd creates the settings command group
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change launcher settings",
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			cfg := app.service.GetSettings()
			if jsonOutput {
				return printJSON(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var (
		minMemory  int
		maxMemory  int
		width      int
		height     int
		fullscreen bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings values",
		Long: `Change settings values. Only the flags given are changed.

Examples:
  craftlaunch settings set --max-memory 8192
  craftlaunch settings set --width 1920 --height 1080
  craftlaunch settings set --fullscreen`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			cfg := app.service.GetSettings()
			if cmd.Flags().Changed("min-memory") {
				cfg.Memory.MinMB = minMemory
			}
			if cmd.Flags().Changed("max-memory") {
				cfg.Memory.MaxMB = maxMemory
			}
			if cmd.Flags().Changed("width") {
				cfg.Window.Width = width
			}
			if cmd.Flags().Changed("height") {
				cfg.Window.Height = height
			}
			if cmd.Flags().Changed("fullscreen") {
				cfg.Window.Fullscreen = fullscreen
			}

			if err := app.service.SaveSettings(ctx, cfg); err != nil {
				return err
			}

			fmt.Println("Settings saved")
			return nil
		},
	}

	cmd.Flags().IntVar(&minMemory, "min-memory", 0, "Minimum JVM heap in MB")
	cmd.Flags().IntVar(&maxMemory, "max-memory", 0, "Maximum JVM heap in MB")
	cmd.Flags().IntVar(&width, "width", 0, "Window width")
	cmd.Flags().IntVar(&height, "height", 0, "Window height")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Launch fullscreen")

	return cmd
}
