package adapters

import (
	"bufio"
	"os"
	"path"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/types"
)

// TargetsFileAdapter reads the tracked target list: one package name
// or git URL per line, blank lines and '#' comments ignored.
type TargetsFileAdapter struct{}

func NewTargetsFileAdapter() TargetsFileAdapter {
	return TargetsFileAdapter{}
}

func (a TargetsFileAdapter) Load(listPath string) ([]types.Target, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("target list not found").
			WithCause(err)
	}
	defer file.Close()

	var targets []types.Target
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, NormalizeTarget(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read target list").
			WithCause(err)
	}
	return targets, nil
}

// NormalizeTarget turns a target list entry into a Target. Git URLs
// become source-url targets named after the repository; anything else
// is an AUR package name.
func NormalizeTarget(entry string) types.Target {
	entry = strings.TrimSpace(entry)
	if isSourceURL(entry) {
		name := path.Base(entry)
		name = strings.TrimSuffix(name, ".git")
		return types.Target{
			Name:   name,
			Kind:   types.TargetKindSourceURL,
			Source: entry,
		}
	}
	return types.Target{
		Name:   entry,
		Kind:   types.TargetKindAUR,
		Source: CloneURL(entry),
	}
}

func isSourceURL(entry string) bool {
	if strings.Contains(entry, "://") {
		return true
	}
	return strings.HasPrefix(entry, "git@")
}

var _ ports.TargetListPort = TargetsFileAdapter{}
