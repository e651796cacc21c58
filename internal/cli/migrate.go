package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"catalog-admin/internal/database"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/services"
)

type MigrateOptions struct {
	Prune time.Duration
}

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the audit trail table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Prune, "prune", 0, "also delete audit entries older than this, e.g. 2160h")

	return cmd
}

func runMigrate(cmd *cobra.Command, rootOpts *RootOptions, opts *MigrateOptions) error {
	cfg := rootOpts.Config
	if !cfg.Database.Enabled {
		return errors.New("audit trail is disabled: set AUDIT_ENABLED=true")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			rootOpts.Logger.Errorf("Error closing database connection: %v", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		return err
	}

	if opts.Prune > 0 {
		audit := services.NewAuditService(repository.NewAuditRepository(db), rootOpts.Logger)
		n, err := audit.Prune(cmd.Context(), opts.Prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d audit entries\n", n)
	}
	return nil
}
