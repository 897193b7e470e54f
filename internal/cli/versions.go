package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internal/launcher/catalog"
	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
)

// NewVersionsCmd creates the version catalog command group
func NewVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Browse and select game versions",
	}

	cmd.AddCommand(newVersionsListCmd())
	cmd.AddCommand(newVersionsSelectCmd())
	cmd.AddCommand(newVersionsInstalledCmd())

	return cmd
}

func newVersionsListCmd() *cobra.Command {
	var (
		query      string
		typeFilter string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Refresh and list the version catalog",
		Long: `Refresh the version catalog and list it.

Examples:
  # List all versions
  craftlaunch versions list

  # Only releases matching 1.20
  craftlaunch versions list --query 1.20 --type release

  # Installed mod loader builds
  craftlaunch versions list --type modded`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			versions, selected, err := app.service.GetVersions(ctx)
			if err != nil {
				// A dead manifest still leaves installed versions usable.
				fmt.Fprintf(os.Stderr, "Warning: refresh failed: %v\n", err)
			}

			if query != "" || typeFilter != "" {
				versions = app.service.FilterVersions(query, catalog.TypeFilter(typeFilter))
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"versions": versions,
					"selected": selected,
				})
			}

			if len(versions) == 0 {
				fmt.Println("No versions found")
				return nil
			}

			formatVersionList(versions, selected)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Substring filter on version ids")
	cmd.Flags().StringVar(&typeFilter, "type", "", "Restrict to one type: release, snapshot or modded")

	return cmd
}

func newVersionsSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Select the version to launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			if _, _, err := app.service.GetVersions(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: refresh failed: %v\n", err)
			}

			if err := app.service.SelectVersion(args[0]); err != nil {
				return err
			}

			cfg := app.service.GetSettings()
			cfg.Game.SelectedVersion = args[0]
			if err := app.service.SaveSettings(ctx, cfg); err != nil {
				return fmt.Errorf("failed to persist selection: %w", err)
			}

			fmt.Printf("Selected %s\n", args[0])
			return nil
		},
	}
}

func newVersionsInstalledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "installed",
		Short: "List versions installed on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			ids, err := app.service.GetInstalledVersions(ctx)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(ids)
			}
			if len(ids) == 0 {
				fmt.Println("No versions installed")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func formatVersionList(versions []domain.Version, selected string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tRELEASED\tINSTALLED\t")

	for _, v := range versions {
		released := "-"
		if v.ReleaseTime != nil {
			released = v.ReleaseTime.Format("2006-01-02")
		}
		installed := ""
		if v.Installed {
			installed = "yes"
		}
		marker := ""
		if v.ID == selected {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t\n", v.ID, marker, v.Type, released, installed)
	}

	w.Flush()
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
