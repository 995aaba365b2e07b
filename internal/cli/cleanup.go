package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SomethingGeneric/aurdist/internal/app"
)

type cleanupCmdOptions struct {
	BuildRoot string
}

func newCleanupCommand() *cobra.Command {
	opts := cleanupCmdOptions{}
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove stale source checkouts without building",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCleanup(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.BuildRoot, "build-root", "build", "Directory for source checkouts")
	return cmd
}

func runCleanup(ctx context.Context, cmd *cobra.Command, opts cleanupCmdOptions) error {
	service := newAppService()
	result, err := service.Cleanup(ctx, app.CleanupRequest{
		BuildRoot: resolveString(cmd, opts.BuildRoot, "build_root", "build-root"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("removed %d checkouts\n", result.Removed)
	return nil
}
