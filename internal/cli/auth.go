package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var (
		name        string
		playerUUID  string
		accessToken string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the player identity",
		Long: `Store a player identity for launching.

Examples:
  # Offline identity, uuid generated
  craftlaunch login --name Steve

  # Full identity
  craftlaunch login --name Steve --uuid <uuid> --token <token>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if playerUUID == "" {
				playerUUID = uuid.NewString()
			} else if _, err := uuid.Parse(playerUUID); err != nil {
				return fmt.Errorf("invalid uuid %q: %w", playerUUID, err)
			}

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			identity := domain.Identity{
				UUID:        playerUUID,
				Name:        name,
				AccessToken: accessToken,
			}
			if err := app.service.Login(identity); err != nil {
				return err
			}

			fmt.Printf("Signed in as %s (%s)\n", name, playerUUID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name")
	cmd.Flags().StringVar(&playerUUID, "uuid", "", "Player uuid (generated when omitted)")
	cmd.Flags().StringVar(&accessToken, "token", "", "Session access token")

	return cmd
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored player identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.service.Logout(); err != nil {
				return err
			}

			fmt.Println("Signed out")
			return nil
		},
	}
}

// NewWhoamiCmd creates the identity display command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored player identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			identity := app.service.Identity()
			if identity == nil {
				fmt.Println("Not signed in")
				return nil
			}

			if jsonOutput {
				return printJSON(identity)
			}
			fmt.Printf("%s (%s)\n", identity.Name, identity.UUID)
			return nil
		},
	}
}
