// Package sink implements the two Sink backends the orchestrator drives:
// ArchiveSink, which stages samples into a single zip plus an embedded
// CSV and log, and DirectorySink, which writes samples as loose files
// under an output tree with a sibling CSV. Grounded on Main::Run's
// InitArchiveOutput/WriteSample/CloseArchiveOutput and the directory
// overload of WriteSample in GetThis_Run.cpp.
package sink

import (
	"www.velocidex.com/golang/getthis/internal/model"
)

// Sink is the destination contract the orchestrator writes samples
// through: open it once, write every sample the ingestor produces, then
// finalize it once so buffered output (CSV, log, archive central
// directory) is flushed and closed.
type Sink interface {
	Init() error
	Write(sample *model.Sample) error
	Finalize() error
}
