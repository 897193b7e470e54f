package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewLaunchCmd creates the game launch command
func NewLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Launch the selected game version",
		Long: `Launch the game. Requires a signed-in identity and a selected
version; each missing precondition is reported on its own and nothing
is retried automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			if _, _, err := app.service.GetVersions(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: refresh failed: %v\n", err)
			}

			// A previously persisted selection wins over the catalog's
			// automatic pick.
			if persisted := app.service.GetSettings().Game.SelectedVersion; persisted != "" {
				if err := app.service.SelectVersion(persisted); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: persisted selection %q not usable: %v\n", persisted, err)
				}
			}

			status, err := app.service.StartGame(ctx)
			if err != nil {
				return err
			}

			fmt.Println(status)
			return nil
		},
	}
}
