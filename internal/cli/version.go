package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/pkg/version"
)

// NewVersionCmd creates the build information command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				return printJSON(version.GetBuildInfo())
			}
			fmt.Print(version.GetLongVersion())
			return nil
		},
	}
}
