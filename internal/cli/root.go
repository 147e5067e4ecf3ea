// Package cli holds the storefrontctl operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/internal/content"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

type catalogSyncer interface {
	Sync(ctx context.Context) catalog.Result
}

type contentStore interface {
	Get(ctx context.Context) (content.Value, error)
	Migrate(ctx context.Context) (bool, error)
}

type productReorderer interface {
	Reorder(ctx context.Context, ids []uint) (bool, error)
}

// Services are the dependencies a command runs against.
type Services struct {
	Catalog  catalogSyncer
	Content  contentStore
	Products productReorderer
	Close    func() error
}

// Opener builds Services on demand so --help never touches the database.
type Opener func(ctx context.Context) (*Services, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string
	open   Opener
}

// NewRootCommand creates the storefrontctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "storefrontctl",
		Short: "Operate the ProMonitor storefront",
		Long:  "Maintenance commands for the storefront database: catalog sync, content and product ordering.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewContentCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))

	return cmd
}

// withServices opens the dependencies, runs fn and closes them again.
func (o *RootOptions) withServices(ctx context.Context, fn func(*Services) error) error {
	if o.open == nil {
		return NewExitError(ExitCommandError, "no service opener configured")
	}
	svc, err := o.open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "open storefront", err)
	}
	defer func() {
		if svc.Close != nil {
			_ = svc.Close()
		}
	}()
	return fn(svc)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
