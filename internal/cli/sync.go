package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCommand runs the catalog reconciler once.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror the ProMonitor feed into the product table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withServices(cmd.Context(), func(svc *Services) error {
				result := svc.Catalog.Sync(cmd.Context())
				if !result.OK {
					return out.Failure(NewExitError(ExitFailure, "catalog sync failed"), result)
				}
				return out.Success(fmt.Sprintf("synced %d products", result.Count), result)
			})
		},
	}
}
