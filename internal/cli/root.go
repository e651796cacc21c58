// Package cli wires the catalog-admin commands.
package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/config"
	"catalog-admin/internal/credentials"
)

// RootOptions holds global flags and the loaded environment.
type RootOptions struct {
	Format string
	Token  string

	Config *config.Config
	Logger *logrus.Logger
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand(cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	opts := &RootOptions{Config: cfg, Logger: logger}

	cmd := &cobra.Command{
		Use:   "catalog-admin",
		Short: "Admin console for the movie and series catalog",
		Long: `Admin console for the movie and series catalog.

serve starts the browser console; list and delete work against the
same admin API from a terminal using ADMIN_API_TOKEN or --token.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "admin API bearer token (default $ADMIN_API_TOKEN)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

var errNoToken = errors.New("no admin token: pass --token or set ADMIN_API_TOKEN")

// catalog builds an API client authenticated with the static CLI token.
func (o *RootOptions) catalog() (*apiclient.Catalog, error) {
	token := strings.TrimSpace(o.Token)
	if token == "" {
		token = strings.TrimSpace(o.Config.Admin.Token)
	}
	if token == "" {
		return nil, errNoToken
	}
	client := apiclient.New(o.Config.BaseURL(), credentials.StaticProvider(token),
		apiclient.WithTimeout(o.Config.API.HTTPTimeout),
		apiclient.WithLogger(o.Logger),
	)
	return apiclient.NewCatalog(client), nil
}
