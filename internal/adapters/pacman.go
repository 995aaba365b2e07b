package adapters

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/shared"
	"github.com/SomethingGeneric/aurdist/internal/types"
)

// PacmanAdapter talks to the host package manager. Queries run as the
// invoking user; installs go through sudo since the tool is expected
// to run as an unprivileged builder (makepkg refuses root).
type PacmanAdapter struct {
	Sudo bool
}

func NewPacmanAdapter() PacmanAdapter {
	return PacmanAdapter{Sudo: true}
}

func (a PacmanAdapter) Query(ctx context.Context, name string) (types.PackageStatus, error) {
	if strings.TrimSpace(name) == "" {
		return types.PackageStatus{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}
	status := types.PackageStatus{}
	if version, ok := a.queryVersion(ctx, "-Qi", name); ok {
		status.Installed = true
		status.InstalledVersion = version
	}
	if version, ok := a.queryVersion(ctx, "-Si", name); ok {
		status.Official = true
		status.OfficialVersion = version
	}
	return status, nil
}

// queryVersion runs a pacman info query and extracts the Version
// field. A non-zero exit simply means the package is not there.
func (a PacmanAdapter) queryVersion(ctx context.Context, flag string, name string) (string, bool) {
	cmd := exec.CommandContext(ctx, "pacman", flag, name)
	output, err := cmd.Output()
	if err != nil {
		return "", false
	}
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Version") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		return strings.TrimSpace(parts[1]), true
	}
	return "", false
}

func (a PacmanAdapter) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := []string{"-S", "--noconfirm", "--needed"}
	args = append(args, names...)
	return a.run(ctx, args, fmt.Sprintf("failed to install: %s", strings.Join(names, ", ")))
}

func (a PacmanAdapter) InstallFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := []string{"-U", "--noconfirm"}
	args = append(args, paths...)
	return a.run(ctx, args, fmt.Sprintf("failed to install files: %s", strings.Join(paths, ", ")))
}

func (a PacmanAdapter) run(ctx context.Context, args []string, msg string) error {
	name := "pacman"
	if a.Sudo {
		args = append([]string{"pacman"}, args...)
		name = "sudo"
	}
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(msg).
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

var _ ports.PackageManagerPort = PacmanAdapter{}
