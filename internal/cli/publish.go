package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SomethingGeneric/aurdist/internal/app"
)

type publishCmdOptions struct {
	PackagesDir string
	RepoName    string
	SyncDest    string
}

func newPublishCommand() *cobra.Command {
	opts := publishCmdOptions{}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Regenerate the repository index and sync it outward",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.PackagesDir, "packages-dir", "packages", "Directory holding built archives")
	cmd.Flags().StringVar(&opts.RepoName, "repo-name", "aurdist", "Repository database name")
	cmd.Flags().StringVar(&opts.SyncDest, "sync-to", "", "Remote sync destination (defaults to .where file)")
	return cmd
}

func runPublish(ctx context.Context, cmd *cobra.Command, opts publishCmdOptions) error {
	service := newAppService()
	result, err := service.Publish(ctx, app.PublishRequest{
		PackagesDir: resolveString(cmd, opts.PackagesDir, "packages_dir", "packages-dir"),
		RepoName:    resolveString(cmd, opts.RepoName, "repo_name", "repo-name"),
		SyncDest:    resolveString(cmd, opts.SyncDest, "sync_to", "sync-to"),
	})
	if err != nil {
		return err
	}
	if result.Synced {
		fmt.Println("repository published and synced")
		return nil
	}
	fmt.Println("repository published")
	return nil
}
