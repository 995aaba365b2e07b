package adapters

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/shared"
)

// DestinationFile is the conventional per-repository file naming the
// remote sync destination when no flag or config value is given.
const DestinationFile = ".where"

// RsyncAdapter copies the repository directory to a remote
// destination, transferring only changed files.
type RsyncAdapter struct{}

func NewRsyncAdapter() RsyncAdapter {
	return RsyncAdapter{}
}

func (a RsyncAdapter) Sync(ctx context.Context, localDir string, destination string) error {
	if strings.TrimSpace(localDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("local directory is empty")
	}
	if strings.TrimSpace(destination) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sync destination is empty")
	}
	source := strings.TrimRight(localDir, "/") + "/"
	cmd := exec.CommandContext(ctx, "rsync", "-avc", source, destination)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("rsync failed").
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

// DestinationFromFile reads a sync destination from a .where-style
// file. A missing file means no destination is configured.
func DestinationFromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read destination file").
			WithCause(err)
	}
	return strings.TrimSpace(string(content)), nil
}

var _ ports.TransferPort = RsyncAdapter{}
