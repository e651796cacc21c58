package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/listing"
	"catalog-admin/internal/pages"
)

type ListOptions struct {
	Page   int
	Limit  int
	Search string
	Status string
	Sort   string
	Order  string
}

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:       "list <resource>",
		Short:     "Print one page of a catalog resource",
		Long:      "Fetch one page of movies, cast, countries, genres or tags with the same paging, search, filter and sort rules as the console.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pages.Resources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "items per page (default $API_PAGE_LIMIT)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "free-text search")
	cmd.Flags().StringVar(&opts.Status, "status", "", "active|inactive, or a movie status")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sortable column key")
	cmd.Flags().StringVar(&opts.Order, "order", "", "asc|desc (requires --sort)")

	return cmd
}

func (o *ListOptions) state() (listing.State, error) {
	st := listing.State{
		Page:   o.Page,
		Limit:  o.Limit,
		Search: o.Search,
		Status: o.Status,
		SortBy: o.Sort,
	}
	switch apiclient.SortOrder(o.Order) {
	case "":
	case apiclient.SortAsc, apiclient.SortDesc:
		if o.Sort == "" {
			return st, errors.New("--order requires --sort")
		}
		st.SortOrder = apiclient.SortOrder(o.Order)
	default:
		return st, fmt.Errorf("invalid order %q: must be asc or desc", o.Order)
	}
	return st, nil
}

func runList(cmd *cobra.Command, rootOpts *RootOptions, opts *ListOptions, resource string) error {
	state, err := opts.state()
	if err != nil {
		return err
	}
	catalog, err := rootOpts.catalog()
	if err != nil {
		return err
	}

	factory := &pages.Factory{
		Catalog: catalog,
		Limit:   rootOpts.Config.API.PageLimit,
		Logger:  rootOpts.Logger,
		Initial: state,
	}
	screen, err := factory.New(resource)
	if err != nil {
		return err
	}

	if opts.Sort != "" {
		sortable := slices.ContainsFunc(screen.View().Columns, func(c pages.ColumnView) bool {
			return c.Sortable && c.Key == opts.Sort
		})
		if !sortable {
			return fmt.Errorf("%s cannot be sorted by %q", resource, opts.Sort)
		}
	}

	if err := screen.Mount(cmd.Context()); err != nil {
		return errors.New(pages.Describe(err))
	}
	return writeView(cmd.OutOrStdout(), rootOpts.Format, screen.View())
}
