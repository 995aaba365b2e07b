package ports

import "github.com/SomethingGeneric/aurdist/internal/types"

// ReportWriterPort persists the finalized batch report.
type ReportWriterPort interface {
	Write(path string, report types.BatchReport) error
}
