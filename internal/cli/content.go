package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// NewContentCommand groups the site content commands.
func NewContentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect and migrate the site content document",
	}
	cmd.AddCommand(newContentShowCommand(rootOpts))
	cmd.AddCommand(newContentMigrateCommand(rootOpts))
	return cmd
}

func newContentShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the merged content document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withServices(cmd.Context(), func(svc *Services) error {
				doc, err := svc.Content.Get(cmd.Context())
				if err != nil {
					return out.Failure(WrapExitError(ExitFailure, "load content", err), nil)
				}
				pretty, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return out.Failure(WrapExitError(ExitFailure, "encode content", err), nil)
				}
				return out.Success(string(pretty), doc)
			})
		},
	}
}

func newContentMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the stored-content rewrites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			return rootOpts.withServices(cmd.Context(), func(svc *Services) error {
				changed, err := svc.Content.Migrate(cmd.Context())
				if err != nil {
					return out.Failure(WrapExitError(ExitFailure, "migrate content", err), nil)
				}
				text := "content already current"
				if changed {
					text = "content rewritten"
				}
				return out.Success(text, map[string]bool{"changed": changed})
			})
		},
	}
}
