package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
)

// NewLoaderCmd creates the mod loader command group
func NewLoaderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loader",
		Short: "Install and list mod loaders",
	}

	cmd.AddCommand(newLoaderInstallCmd())
	cmd.AddCommand(newLoaderVersionsCmd())
	cmd.AddCommand(newLoaderListCmd())

	return cmd
}

func newLoaderInstallCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "install <game-version> <loader-version>",
		Short: "Install a mod loader for a game version",
		Long: `Install a mod loader build and select it.

Examples:
  # Fabric 0.15.7 for 1.20.4
  craftlaunch loader install 1.20.4 0.15.7

  # Forge 49.0.38 for 1.20.4
  craftlaunch loader install --kind forge 1.20.4 49.0.38`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			var loaderKind domain.VersionType
			switch kind {
			case "fabric":
				loaderKind = domain.TypeFabric
			case "forge":
				loaderKind = domain.TypeForge
			default:
				return fmt.Errorf("unknown loader kind %q (want fabric or forge)", kind)
			}

			id, err := app.service.InstallLoader(ctx, args[0], loaderKind, args[1])
			if err != nil {
				return err
			}

			cfg := app.service.GetSettings()
			cfg.Game.SelectedVersion = id
			if err := app.service.SaveSettings(ctx, cfg); err != nil {
				return fmt.Errorf("failed to persist selection: %w", err)
			}

			fmt.Printf("Installed and selected %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "fabric", "Loader kind: fabric or forge")

	return cmd
}

func newLoaderVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <game-version>",
		Short: "List Fabric loader versions for a game version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			versions, err := app.service.AvailableFabricLoaderVersions(ctx, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(versions)
			}
			for _, v := range versions {
				fmt.Println(v)
			}
			return nil
		},
	}
}

func newLoaderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed Fabric loader builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			ids, err := app.service.ListInstalledFabricVersions(ctx)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(ids)
			}
			if len(ids) == 0 {
				fmt.Println("No Fabric loaders installed")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}
