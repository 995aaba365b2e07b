package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SomethingGeneric/aurdist/internal/app"
)

type checkCmdOptions struct {
	TargetsFile string
	BuildRoot   string
	PackagesDir string
	NoCleanup   bool
}

func newCheckCommand() *cobra.Command {
	opts := checkCmdOptions{}
	cmd := &cobra.Command{
		Use:   "check [targets...]",
		Short: "Report which targets are outdated without building",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.TargetsFile, "targets", "targets.txt", "Target list file")
	cmd.Flags().StringVar(&opts.BuildRoot, "build-root", "build", "Directory for source checkouts")
	cmd.Flags().StringVar(&opts.PackagesDir, "packages-dir", "packages", "Directory holding built archives")
	cmd.Flags().BoolVar(&opts.NoCleanup, "no-cleanup", false, "Keep source checkouts after checking")
	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkCmdOptions, targets []string) error {
	service := newAppService()
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

func printStatuses(result app.CheckResult) {
	for _, status := range result.Statuses {
		label := "up to date"
		if status.NeedsBuild {
			label = "needs build"
		}
		line := fmt.Sprintf("%s: %s (local: %s, upstream: %s)", status.Target.Name, label, orDash(status.Local), orDash(status.Upstream))
		if status.Note != "" {
			line += " - " + status.Note
		}
		fmt.Println(line)
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
