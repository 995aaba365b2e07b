package app

import (
	"time"

	"github.com/SomethingGeneric/aurdist/internal/adapters"
	"github.com/SomethingGeneric/aurdist/internal/core"
	"github.com/SomethingGeneric/aurdist/internal/ports"
)

type Service struct {
	PackageManager ports.PackageManagerPort
	Upstream       ports.UpstreamPort
	BuildTool      ports.BuildToolPort
	Index          ports.IndexPort
	Transfer       ports.TransferPort
	TargetList     ports.TargetListPort
	Workspace      ports.WorkspacePort
	ReportWriter   ports.ReportWriterPort
	Clock          func() time.Time
}

func NewService() Service {
	return Service{
		PackageManager: adapters.NewPacmanAdapter(),
		Upstream:       adapters.NewAURAdapter(),
		BuildTool:      adapters.NewMakepkgAdapter(),
		Index:          adapters.NewRepoAddAdapter(),
		Transfer:       adapters.NewRsyncAdapter(),
		TargetList:     adapters.NewTargetsFileAdapter(),
		Workspace:      adapters.NewWorkspaceAdapter(),
		ReportWriter:   adapters.NewReportFileAdapter(),
		Clock:          time.Now,
	}
}

func (s Service) classifier() core.Classifier {
	return core.NewClassifier(s.PackageManager, s.Upstream)
}
