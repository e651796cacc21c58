package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"catalog-admin/internal/modal"
	"catalog-admin/internal/pages"
)

var ErrNotConfirmed = errors.New("deletion not confirmed: re-run with --yes")

type DeleteOptions struct {
	Yes bool
}

func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{}

	cmd := &cobra.Command{
		Use:       "delete <resource> <id>",
		Short:     "Delete one catalog record",
		Args:      cobra.ExactArgs(2),
		ValidArgs: pages.Resources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, rootOpts, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm the deletion")

	return cmd
}

func runDelete(cmd *cobra.Command, rootOpts *RootOptions, opts *DeleteOptions, resource, id string) error {
	catalog, err := rootOpts.catalog()
	if err != nil {
		return err
	}
	target, ok := catalog.Deleter(resource)
	if !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}

	var confirm modal.Confirm
	confirm.Open("Delete "+resource, fmt.Sprintf("Delete %s %s? This action cannot be undone.", resource, id), modal.SeverityDanger)
	if !opts.Yes {
		fmt.Fprintln(cmd.ErrOrStderr(), confirm.View().Message)
		confirm.Cancel()
		return ErrNotConfirmed
	}

	err = confirm.Accept(cmd.Context(), func(ctx context.Context) error {
		return target.Delete(ctx, id)
	})
	if err != nil {
		return errors.New(pages.Describe(err))
	}

	rootOpts.Logger.WithFields(logrus.Fields{
		"resource": resource,
		"id":       id,
	}).Info("Deleted from the command line")

	if rootOpts.Format == "json" {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(deleteOutput{Status: "deleted", Resource: resource, ID: id})
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", resource, id)
	return err
}
