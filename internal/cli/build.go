package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"github.com/SomethingGeneric/aurdist/internal/app"
	"github.com/SomethingGeneric/aurdist/internal/types"
)

type buildCmdOptions struct {
	TargetsFile string
	BuildRoot   string
	PackagesDir string
	RepoName    string
	SyncDest    string
	ReportPath  string
	Force       bool
	CheckOnly   bool
	NoCleanup   bool
	Debug       bool
	SkipPublish bool
}

func newBuildCommand() *cobra.Command {
	opts := buildCmdOptions{}
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build outdated packages and republish the repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.TargetsFile, "targets", "targets.txt", "Target list file")
	cmd.Flags().StringVar(&opts.BuildRoot, "build-root", "build", "Directory for source checkouts")
	cmd.Flags().StringVar(&opts.PackagesDir, "packages-dir", "packages", "Directory holding built archives")
	cmd.Flags().StringVar(&opts.RepoName, "repo-name", "aurdist", "Repository database name")
	cmd.Flags().StringVar(&opts.SyncDest, "sync-to", "", "Remote sync destination (defaults to .where file)")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "Write the batch report to this YAML file")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Rebuild even when up to date")
	cmd.Flags().BoolVar(&opts.CheckOnly, "check-only", false, "Report outdated targets without building")
	cmd.Flags().BoolVar(&opts.NoCleanup, "no-cleanup", false, "Keep source checkouts after building")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Log full build tool output")
	cmd.Flags().BoolVar(&opts.SkipPublish, "skip-publish", false, "Skip the repository index rewrite and sync")
	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildCmdOptions, targets []string) error {
	service := newAppService()
	if resolveBool(cmd, opts.CheckOnly, "check_only", "check-only") {
		result, err := service.Check(ctx, app.CheckRequest{
			Targets:     targets,
			TargetsFile: resolveString(cmd, opts.TargetsFile, "targets", "targets"),
			BuildRoot:   resolveString(cmd, opts.BuildRoot, "build_root", "build-root"),
			PackagesDir: resolveString(cmd, opts.PackagesDir, "packages_dir", "packages-dir"),
			NoCleanup:   resolveBool(cmd, opts.NoCleanup, "no_cleanup", "no-cleanup"),
		})
		if err != nil {
			return err
		}
		printStatuses(result)
		return nil
	}
	result, err := service.Build(ctx, app.BuildRequest{
		Targets:     targets,
		TargetsFile: resolveString(cmd, opts.TargetsFile, "targets", "targets"),
		BuildRoot:   resolveString(cmd, opts.BuildRoot, "build_root", "build-root"),
		PackagesDir: resolveString(cmd, opts.PackagesDir, "packages_dir", "packages-dir"),
		RepoName:    resolveString(cmd, opts.RepoName, "repo_name", "repo-name"),
		SyncDest:    resolveString(cmd, opts.SyncDest, "sync_to", "sync-to"),
		ReportPath:  resolveString(cmd, opts.ReportPath, "report", "report"),
		Force:       resolveBool(cmd, opts.Force, "force", "force"),
		NoCleanup:   resolveBool(cmd, opts.NoCleanup, "no_cleanup", "no-cleanup"),
		Debug:       resolveBool(cmd, opts.Debug, "debug", "debug"),
		SkipPublish: resolveBool(cmd, opts.SkipPublish, "skip_publish", "skip-publish"),
	})
	if err != nil {
		return err
	}
	printReport(result.Report)
	if result.Report.HasFailures() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("one or more targets failed")
	}
	return nil
}

func printReport(report types.BatchReport) {
	for _, attempt := range report.Attempts {
		switch attempt.Outcome {
		case types.OutcomeSkipped:
			fmt.Printf("%s: up to date (%s)\n", attempt.Target.Name, attempt.Local)
		case types.OutcomeSuccess:
			fmt.Printf("%s: built %s (%d artifacts)\n", attempt.Target.Name, attempt.Upstream, len(attempt.Artifacts))
		default:
			fmt.Printf("%s: %s: %s\n", attempt.Target.Name, attempt.Outcome, attempt.Detail)
		}
	}
	if report.PublishError != "" {
		fmt.Printf("publish failed: %s\n", report.PublishError)
	}
	if report.SyncError != "" {
		fmt.Printf("sync failed: %s\n", report.SyncError)
	}
}
