package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
)

// NewJavaCmd creates the java toolchain command group
func NewJavaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "java",
		Short: "Detect, download and select Java runtimes",
	}

	cmd.AddCommand(newJavaDetectCmd())
	cmd.AddCommand(newJavaAvailableCmd())
	cmd.AddCommand(newJavaDownloadCmd())
	cmd.AddCommand(newJavaSelectCmd())

	return cmd
}

func newJavaDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Scan the host for Java installations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			installations, err := app.service.DetectJava(ctx)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(installations)
			}
			if len(installations) == 0 {
				fmt.Println("No Java installations found. Try 'craftlaunch java download'.")
				return nil
			}

			formatJavaList(installations)
			return nil
		},
	}
}

func newJavaAvailableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "List Adoptium major versions available for download",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			majors, defaultMajor, err := app.service.FetchAvailableJavaVersions(ctx)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"available": majors,
					"default":   defaultMajor,
				})
			}

			for _, major := range majors {
				if major == defaultMajor {
					fmt.Printf("%d (default)\n", major)
				} else {
					fmt.Println(major)
				}
			}
			return nil
		},
	}
}

func newJavaDownloadCmd() *cobra.Command {
	var (
		major      int
		imageType  string
		customPath string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download and install an Adoptium runtime",
		Long: `Download a Java runtime from Adoptium and select it.

Examples:
  # Download the recommended runtime
  craftlaunch java download

  # Download a specific JDK
  craftlaunch java download --major 17 --type jdk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 45*time.Minute)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			if major == 0 {
				majors, defaultMajor, err := app.service.FetchAvailableJavaVersions(ctx)
				if err != nil {
					return err
				}
				if len(majors) == 0 {
					return fmt.Errorf("no downloadable Java releases")
				}
				major = defaultMajor
			}

			info := domain.JavaDownloadInfo{
				MajorVersion: major,
				ImageType:    domain.JavaImageType(imageType),
			}

			fmt.Printf("Downloading Java %d (%s)...\n", major, imageType)
			installation, err := app.service.DownloadAdoptiumJava(ctx, info, customPath)
			if err != nil {
				return err
			}

			cfg := app.service.GetSettings()
			cfg.Java.Path = installation.Path
			if err := app.service.SaveSettings(ctx, cfg); err != nil {
				return fmt.Errorf("failed to persist java path: %w", err)
			}

			fmt.Printf("Installed %s (Java %d) at %s\n",
				installation.Version, installation.MajorVersion, installation.Path)
			return nil
		},
	}

	cmd.Flags().IntVar(&major, "major", 0, "Major version to download (default: recommended)")
	cmd.Flags().StringVar(&imageType, "type", "jre", "Image type: jre or jdk")
	cmd.Flags().StringVar(&customPath, "path", "", "Custom installation directory")

	return cmd
}

func newJavaSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <path>",
		Short: "Use the Java executable at the given path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			cfg := app.service.GetSettings()
			cfg.Java.Path = args[0]
			if err := app.service.SaveSettings(ctx, cfg); err != nil {
				return err
			}

			fmt.Printf("Using %s\n", args[0])
			return nil
		},
	}
}

func formatJavaList(installations []domain.JavaInstallation) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tVERSION\tMAJOR\tVENDOR\t")
	for _, inst := range installations {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t\n", inst.Path, inst.Version, inst.MajorVersion, inst.Vendor)
	}
	w.Flush()
}
