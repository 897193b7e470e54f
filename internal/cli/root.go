package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "craftlaunch",
	Short: "CraftLaunch - Minecraft launcher backend and CLI",
	Long: `CraftLaunch manages game versions, Java runtimes and mod loaders,
and launches the game once an identity and a version are in place.

Typical flow:
  craftlaunch login --name <player>
  craftlaunch versions list
  craftlaunch versions select 1.20.4
  craftlaunch launch`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the settings file (defaults to ~/.craftlaunch/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(NewVersionsCmd())
	rootCmd.AddCommand(NewJavaCmd())
	rootCmd.AddCommand(NewLoaderCmd())
	rootCmd.AddCommand(NewLaunchCmd())
	rootCmd.AddCommand(NewSettingsCmd())
	rootCmd.AddCommand(NewLoginCmd())
	rootCmd.AddCommand(NewLogoutCmd())
	rootCmd.AddCommand(NewWhoamiCmd())
	rootCmd.AddCommand(NewVersionCmd())
}
