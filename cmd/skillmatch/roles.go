package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/roles"
)

var rolesCmd = &cobra.Command{
	Use:   "roles [category]",
	Short: "List job roles and their required skills",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRoles,
}

var rolesJSON bool

func init() {
	rolesCmd.Flags().BoolVar(&rolesJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(rolesCmd)
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalog := roles.Default()
	if cfg.RolesPath != "" {
		if catalog, err = roles.Load(cfg.RolesPath); err != nil {
			return err
		}
	}

	categories := catalog.Categories()
	if len(args) == 1 {
		category, err := catalog.Category(args[0])
		if err != nil {
			return err
		}
		categories = []roles.Category{category}
	}

	if rolesJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(categories)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, category := range categories {
		fmt.Fprintf(w, "%s\n", category.Name)
		for _, role := range category.Roles {
			fmt.Fprintf(w, "  %s\t%s\n", role.Name, strings.Join(role.RequiredSkills, ", "))
		}
	}
	return w.Flush()
}
