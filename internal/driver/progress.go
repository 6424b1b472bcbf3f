package driver

import "time"

// ProgressStatus reports where a file is in a directory run.
type ProgressStatus uint8

const (
	// ProgressQueued: the file was discovered and waits for a worker.
	ProgressQueued ProgressStatus = iota
	ProgressWorking
	ProgressDone
	// ProgressError: the file failed to load or produced lexical errors.
	ProgressError
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressQueued:
		return "queued"
	case ProgressWorking:
		return "lexing"
	case ProgressDone:
		return "done"
	case ProgressError:
		return "error"
	default:
		return "unknown"
	}
}

// ProgressEvent describes a per-file state change during TokenizeDir.
type ProgressEvent struct {
	File    string
	Status  ProgressStatus
	Tokens  int
	Errors  int
	Cached  bool
	Elapsed time.Duration
}

// ProgressSink receives progress events. It is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink func(ProgressEvent)

func (s ProgressSink) emit(ev ProgressEvent) {
	if s != nil {
		s(ev)
	}
}
