package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/config"
	"github.com/jonathan/skillmatch/internal/server"
	"github.com/jonathan/skillmatch/internal/types"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a dashboard administrator",
	RunE:  runCreateAdmin,
}

var (
	adminEmail    string
	adminPassword string
)

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password, at least 8 characters (required)")

	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := requireDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	admins := server.NewAdminService(database, passwords, nil)
	id, err := admins.Create(ctx, &types.CreateAdminRequest{Email: adminEmail, Password: adminPassword})
	if err != nil {
		return fmt.Errorf("failed to create admin: %s", strings.Join(types.ValidationMessages(err), "; "))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", adminEmail, id)
	return nil
}
