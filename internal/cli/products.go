package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	product "github.com/promonitor/storefront/internal/products"
)

// NewProductsCommand groups the product commands.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage admin products",
	}
	cmd.AddCommand(newProductsReorderCommand(rootOpts))
	return cmd
}

func newProductsReorderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "reorder <ids>",
		Short:   "Set the display order of custom products",
		Example: "  storefrontctl products reorder 2,3,1",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			ids := product.ParseOrder(strings.Join(args, ","))
			if len(ids) == 0 {
				return out.Failure(NewExitError(ExitCommandError, "no product ids given"), nil)
			}
			return rootOpts.withServices(cmd.Context(), func(svc *Services) error {
				applied, err := svc.Products.Reorder(cmd.Context(), ids)
				if err != nil {
					return out.Failure(WrapExitError(ExitFailure, "reorder products", err), nil)
				}
				data := map[string]any{"applied": applied, "ids": ids}
				if !applied {
					return out.Failure(NewExitError(ExitFailure, "order not applied"), data)
				}
				return out.Success(fmt.Sprintf("reordered %d products", len(ids)), data)
			})
		},
	}
}
